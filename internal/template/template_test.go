package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
)

const validTemplate = `
template:
  name: zomato
  version: "1"

header_extraction:
  fields:
    invoice_number:
      keywords: ["invoice no"]
      regex: 'Invoice\s*No[.:]?\s*([A-Z0-9/-]+)'
    invoice_date:
      keywords: ["invoice date"]
      regex: 'Invoice\s*Date[.:]?\s*(\d{2}-\d{2}-\d{4})'
      date_format: "02-01-2006"

table_extraction:
  mode: lattice
  required_columns: [description, total]
  column_mapping:
    particulars: description
    "gross value": gross_value
    total: total

row_classification:
  summary_keywords: ["item(s) total"]
  exclude_keywords: ["total value"]

grand_total:
  keywords: ["total value"]
  regex: 'Total\s*Value\s*[:]?\s*([\d,]+\.?\d*)'

tax_type: cgst_sgst
`

func TestLoad_Valid(t *testing.T) {
	t.Parallel()

	tpl, err := Load([]byte(validTemplate))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tpl.Meta.Name != "zomato" || tpl.Meta.Version != "1" {
		t.Fatalf("meta: %+v", tpl.Meta)
	}
	if tpl.TaxModel != constants.TaxModelCGSTSGST {
		t.Fatalf("tax model: %s", tpl.TaxModel)
	}
	if tpl.TableExtraction.Mode != constants.TableModeLattice {
		t.Fatalf("mode: %s", tpl.TableExtraction.Mode)
	}

	spec, ok := tpl.HeaderExtraction.Fields["invoice_number"]
	if !ok || spec.Pattern == nil {
		t.Fatalf("invoice_number spec not compiled: %+v", spec)
	}
	// Compiled case-insensitively.
	if m := spec.Pattern.FindStringSubmatch("invoice no: AB12"); m == nil || m[1] != "AB12" {
		t.Fatalf("pattern match: %v", m)
	}
	if tpl.GrandTotal.Pattern == nil {
		t.Fatal("grand total pattern not compiled")
	}
}

func TestLoad_MissingSection(t *testing.T) {
	t.Parallel()

	src := strings.Replace(validTemplate, "tax_type: cgst_sgst", "", 1)
	_, err := Load([]byte(src))
	var terr *invoice.TemplateError
	if !errors.As(err, &terr) {
		t.Fatalf("want TemplateError, got %v", err)
	}
}

func TestLoad_UnknownTaxModel(t *testing.T) {
	t.Parallel()

	src := strings.Replace(validTemplate, "tax_type: cgst_sgst", "tax_type: vat", 1)
	_, err := Load([]byte(src))
	var terr *invoice.TemplateError
	if !errors.As(err, &terr) {
		t.Fatalf("want TemplateError, got %v", err)
	}
	if !strings.Contains(err.Error(), "vat") {
		t.Fatalf("error should name the tag: %v", err)
	}
}

func TestLoad_BadRegex(t *testing.T) {
	t.Parallel()

	src := strings.Replace(validTemplate,
		`regex: 'Invoice\s*No[.:]?\s*([A-Z0-9/-]+)'`,
		`regex: '(['`, 1)
	_, err := Load([]byte(src))
	var terr *invoice.TemplateError
	if !errors.As(err, &terr) {
		t.Fatalf("want TemplateError, got %v", err)
	}
}

func TestLoad_RegexWithoutCaptureGroup(t *testing.T) {
	t.Parallel()

	src := strings.Replace(validTemplate,
		`regex: 'Invoice\s*No[.:]?\s*([A-Z0-9/-]+)'`,
		`regex: 'Invoice\s*No'`, 1)
	_, err := Load([]byte(src))
	var terr *invoice.TemplateError
	if !errors.As(err, &terr) {
		t.Fatalf("want TemplateError, got %v", err)
	}
}

func TestLoad_RequiredColumnNotMapped(t *testing.T) {
	t.Parallel()

	src := strings.Replace(validTemplate, "required_columns: [description, total]",
		"required_columns: [description, total, net_value]", 1)
	_, err := Load([]byte(src))
	var terr *invoice.TemplateError
	if !errors.As(err, &terr) {
		t.Fatalf("want TemplateError, got %v", err)
	}
	if !strings.Contains(err.Error(), "net_value") {
		t.Fatalf("error should name the column: %v", err)
	}
}
