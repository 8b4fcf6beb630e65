package template

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// structureSchema returns the JSON-Schema (draft 2020-12 subset) describing a
// well-formed template document, as a generic map. Tax model and table mode
// values are checked separately so those failures get their own messages.
func structureSchema() map[string]any {
	keywordList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	fieldSpec := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"regex"},
		"properties": map[string]any{
			"keywords":    keywordList,
			"regex":       map[string]any{"type": "string", "minLength": 1},
			"date_format": map[string]any{"type": "string"},
			"optional":    map[string]any{"type": "boolean"},
		},
	}

	return map[string]any{
		"type": "object",
		"required": []string{
			"template", "header_extraction", "table_extraction",
			"row_classification", "grand_total", "tax_type",
		},
		"properties": map[string]any{
			"template": map[string]any{
				"type":     "object",
				"required": []string{"name", "version"},
				"properties": map[string]any{
					"name":    map[string]any{"type": "string", "minLength": 1},
					"version": map[string]any{"type": "string", "minLength": 1},
				},
			},
			"header_extraction": map[string]any{
				"type":     "object",
				"required": []string{"fields"},
				"properties": map[string]any{
					"fields": map[string]any{
						"type":                 "object",
						"minProperties":        1,
						"additionalProperties": fieldSpec,
					},
				},
			},
			"table_extraction": map[string]any{
				"type":     "object",
				"required": []string{"mode"},
				"properties": map[string]any{
					"mode":             map[string]any{"type": "string"},
					"required_columns": keywordList,
					"column_mapping": map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"type": "string"},
					},
				},
			},
			"row_classification": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"summary_keywords": keywordList,
					"exclude_keywords": keywordList,
				},
			},
			"grand_total": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"keywords": keywordList,
					"regex":    map[string]any{"type": "string"},
				},
			},
			"tax_type": map[string]any{"type": "string", "minLength": 1},
		},
	}
}

// validateStructure validates the decoded YAML document against the template
// schema. The document is round-tripped through JSON first because the
// validator expects json.Unmarshal value types.
func validateStructure(doc any) error {
	b, err := json.Marshal(structureSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("template.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("template.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	db, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var v any
	if err := json.Unmarshal(db, &v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("structure: %v", err)
	}
	return nil
}
