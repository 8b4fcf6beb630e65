// Package template loads and validates the declarative extraction templates
// that parameterize the pipeline. Templates are pure immutable data; all
// behavior (regex application, classification) lives in the stage packages.
package template

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
)

// FieldSpec describes how one header field is located in document text.
type FieldSpec struct {
	Keywords   []string `yaml:"keywords"`
	Regex      string   `yaml:"regex"`
	DateFormat string   `yaml:"date_format"` // Go reference layout, e.g. 02-01-2006
	Optional   bool     `yaml:"optional"`

	// Pattern is the compiled Regex, case-insensitive. Set at load.
	Pattern *regexp.Regexp `yaml:"-"`
}

// HeaderExtraction maps field names to their extraction specs.
type HeaderExtraction struct {
	Fields map[string]FieldSpec `yaml:"fields"`
}

// TableExtraction configures how line item rows are located and mapped.
type TableExtraction struct {
	Mode            constants.TableMode `yaml:"mode"`
	RequiredColumns []string            `yaml:"required_columns"`
	ColumnMapping   map[string]string   `yaml:"column_mapping"`
}

// RowClassification holds the keyword sets that assign row roles.
type RowClassification struct {
	SummaryKeywords []string `yaml:"summary_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// GrandTotal configures the text-regex fallback for locating the grand total.
type GrandTotal struct {
	Keywords []string `yaml:"keywords"`
	Regex    string   `yaml:"regex"`

	Pattern *regexp.Regexp `yaml:"-"`
}

// Meta identifies a template.
type Meta struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Template is an immutable extraction configuration. Loaded once per run and
// safe to share across concurrent document runs; nothing mutates it after
// Load returns.
type Template struct {
	Meta              Meta               `yaml:"template"`
	HeaderExtraction  HeaderExtraction   `yaml:"header_extraction"`
	TableExtraction   TableExtraction    `yaml:"table_extraction"`
	RowClassification RowClassification  `yaml:"row_classification"`
	GrandTotal        GrandTotal         `yaml:"grand_total"`
	TaxModel          constants.TaxModel `yaml:"tax_type"`
}

// Load parses and validates a template document. Missing sections, a field
// regex that fails to compile, and an unknown tax model tag are all load-time
// failures; a template that loads is safe to run.
func Load(src []byte) (*Template, error) {
	var doc any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, &invoice.TemplateError{Message: fmt.Sprintf("parse yaml: %v", err)}
	}
	if err := validateStructure(doc); err != nil {
		return nil, &invoice.TemplateError{Message: err.Error()}
	}

	var tpl Template
	if err := yaml.Unmarshal(src, &tpl); err != nil {
		return nil, &invoice.TemplateError{Message: fmt.Sprintf("decode: %v", err)}
	}

	if !tpl.TaxModel.Valid() {
		return nil, &invoice.TemplateError{Message: fmt.Sprintf(
			"unknown tax model %q, supported: %v", tpl.TaxModel, constants.TaxModelStrings())}
	}
	if !tpl.TableExtraction.Mode.Valid() {
		return nil, &invoice.TemplateError{Message: fmt.Sprintf(
			"unknown table mode %q", tpl.TableExtraction.Mode)}
	}

	// Field regexes are applied case-insensitively, matching keyword search.
	for name, spec := range tpl.HeaderExtraction.Fields {
		p, err := regexp.Compile("(?i)" + spec.Regex)
		if err != nil {
			return nil, &invoice.TemplateError{Message: fmt.Sprintf(
				"field %q: compile regex: %v", name, err)}
		}
		if p.NumSubexp() < 1 {
			return nil, &invoice.TemplateError{Message: fmt.Sprintf(
				"field %q: regex has no capture group", name)}
		}
		spec.Pattern = p
		tpl.HeaderExtraction.Fields[name] = spec
	}

	if tpl.GrandTotal.Regex != "" {
		p, err := regexp.Compile("(?i)" + tpl.GrandTotal.Regex)
		if err != nil {
			return nil, &invoice.TemplateError{Message: fmt.Sprintf(
				"grand_total: compile regex: %v", err)}
		}
		if p.NumSubexp() < 1 {
			return nil, &invoice.TemplateError{Message: "grand_total: regex has no capture group"}
		}
		tpl.GrandTotal.Pattern = p
	}

	if tpl.TableExtraction.Mode == constants.TableModeLattice {
		if err := checkColumnMapping(tpl.TableExtraction); err != nil {
			return nil, &invoice.TemplateError{Message: err.Error()}
		}
	}

	return &tpl, nil
}

// LoadFile loads a template from disk.
func LoadFile(path string) (*Template, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &invoice.TemplateError{Message: fmt.Sprintf("read %s: %v", path, err)}
	}
	return Load(src)
}

// checkColumnMapping enforces the mapping invariant for lattice templates:
// every required canonical column appears exactly once among the mapping's
// targets.
func checkColumnMapping(te TableExtraction) error {
	counts := make(map[string]int, len(te.ColumnMapping))
	for _, canonical := range te.ColumnMapping {
		counts[canonical]++
	}
	for _, required := range te.RequiredColumns {
		switch counts[required] {
		case 0:
			return fmt.Errorf("required column %q not present in column_mapping", required)
		case 1:
			// ok
		default:
			return fmt.Errorf("required column %q mapped from %d source labels", required, counts[required])
		}
	}
	return nil
}
