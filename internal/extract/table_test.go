package extract

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

var testExtraction = template.TableExtraction{
	Mode:            "lattice",
	RequiredColumns: []string{"description", "total"},
	ColumnMapping: map[string]string{
		"particulars": "description",
		"gross value": "gross_value",
		"total":       "total",
	},
}

func TestNormalizeTable(t *testing.T) {
	t.Parallel()

	tbl := Table{
		Header: []string{"Particulars", "Gross\nvalue", "Remarks", "Total"},
		Rows: [][]string{
			{"Butter Chapati", "147.00", "fresh", "147.00"},
			{"Item(s) Total", "", "", "147.00"},
		},
	}

	rows, err := NormalizeTable(tbl, testExtraction, nil)
	if err != nil {
		t.Fatalf("NormalizeTable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	first := rows[0]
	if first.Position != 0 {
		t.Errorf("Position = %d", first.Position)
	}
	if got := first.Cell("description"); got != "Butter Chapati" {
		t.Errorf("description = %q", got)
	}
	if got := first.Cell("gross_value"); got != "147.00" {
		t.Errorf("gross_value = %q", got)
	}
	// Remarks has no mapping: positionally preserved, canonically absent.
	if got := first.Cell("remarks"); got != "" {
		t.Errorf("unmapped column leaked: %q", got)
	}
	if len(first.Columns) != 3 {
		t.Errorf("Columns = %v, want 3 canonical names", first.Columns)
	}
}

func TestNormalizeTableDuplicateLabel(t *testing.T) {
	t.Parallel()

	tbl := Table{
		Header: []string{"Particulars", "Particulars", "Total"},
		Rows:   [][]string{{"first", "second", "10.00"}},
	}

	rows, err := NormalizeTable(tbl, testExtraction, nil)
	if err != nil {
		t.Fatalf("NormalizeTable: %v", err)
	}
	if got := rows[0].Cell("description"); got != "first" {
		t.Errorf("description = %q, want first occurrence to win", got)
	}
}

func TestNormalizeTableNoRequiredColumns(t *testing.T) {
	t.Parallel()

	tbl := Table{
		Header: []string{"Date", "Reference", "Balance"},
		Rows:   [][]string{{"2024-01-01", "TXN1", "0.00"}},
	}

	_, err := NormalizeTable(tbl, testExtraction, nil)
	var tableErr *invoice.TableExtractionError
	if !errors.As(err, &tableErr) {
		t.Fatalf("expected TableExtractionError, got %v", err)
	}
}

func TestNormalizeTableShortRow(t *testing.T) {
	t.Parallel()

	tbl := Table{
		Header: []string{"Particulars", "Gross value", "Total"},
		Rows:   [][]string{{"Chapati"}},
	}

	rows, err := NormalizeTable(tbl, testExtraction, nil)
	if err != nil {
		t.Fatalf("NormalizeTable: %v", err)
	}
	if got := rows[0].Cell("total"); got != "" {
		t.Errorf("total = %q, want empty for short row", got)
	}
}
