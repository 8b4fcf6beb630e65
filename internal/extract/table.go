package extract

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

// Table is the collaborator-shaped input: one header row plus data rows of
// raw cell strings, as produced by the table geometry extractor.
type Table struct {
	Header []string
	Rows   [][]string
}

// RawRow is one normalized data row: raw cell text keyed by canonical column
// name, plus its ordinal position in the source table. Immutable once
// produced.
type RawRow struct {
	Position int
	Columns  []string // canonical names present, in source column order
	Cells    map[string]string
}

// Cell returns the raw text for a canonical column, or "" when the source
// table had no mapped column of that name.
func (r RawRow) Cell(name string) string {
	return r.Cells[name]
}

// NormalizeTable maps the table's header labels through the template's
// column mapping and emits one RawRow per data row. Header cells with no
// mapping keep their position but are excluded from canonical access. Fails
// when none of the template's required columns appear in the mapped header
// set, which is the primary defense against picking up an unrelated table.
func NormalizeTable(t Table, te template.TableExtraction, logger *slog.Logger) ([]RawRow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	canonical := make([]string, len(t.Header))
	seen := make(map[string]bool, len(t.Header))
	for i, label := range t.Header {
		mapped, ok := te.ColumnMapping[normalize.ColumnLabel(label)]
		if !ok || seen[mapped] {
			continue
		}
		canonical[i] = mapped
		seen[mapped] = true
	}

	hits := 0
	for _, required := range te.RequiredColumns {
		if seen[required] {
			hits++
		}
	}
	if hits == 0 {
		return nil, &invoice.TableExtractionError{Message: fmt.Sprintf(
			"no required columns %v present in table header %v", te.RequiredColumns, t.Header)}
	}

	columns := make([]string, 0, len(seen))
	for _, name := range canonical {
		if name != "" {
			columns = append(columns, name)
		}
	}

	rows := make([]RawRow, 0, len(t.Rows))
	for i, cells := range t.Rows {
		row := RawRow{
			Position: i,
			Columns:  columns,
			Cells:    make(map[string]string, len(columns)),
		}
		for j, name := range canonical {
			if name == "" || j >= len(cells) {
				continue
			}
			row.Cells[name] = cells[j]
		}
		rows = append(rows, row)
	}

	logger.Debug("extract.table.ok", "columns", columns, "rows", len(rows))
	return rows, nil
}
