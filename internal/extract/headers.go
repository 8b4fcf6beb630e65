// Package extract turns raw document text and collaborator-produced tables
// into canonical header values and rows, driven entirely by the template.
package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

// DateLayout is the canonical layout header date values are re-emitted in
// after a successful parse against the field's configured format.
const DateLayout = "2006-01-02"

var reStateCode = regexp.MustCompile(`\(\d+\)`)

// Headers applies the template's field specs to the full document text.
// For each field: the text must contain one of the configured keywords
// (case-insensitive), then the field regex contributes its first capture
// group. Fields not marked optional fail with a HeaderExtractionError when
// the keyword or the match is missing. Date-formatted fields are parsed and
// re-emitted in DateLayout so downstream handling is format-independent.
func Headers(text string, fields map[string]template.FieldSpec, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lowered := strings.ToLower(text)

	// Deterministic extraction order keeps logs and failures stable.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(fields))
	for _, name := range names {
		spec := fields[name]

		if len(spec.Keywords) > 0 && !containsAnyKeyword(lowered, spec.Keywords) {
			if spec.Optional {
				continue
			}
			return nil, &invoice.HeaderExtractionError{
				Field:   name,
				Message: fmt.Sprintf("none of keywords %v found in document text", spec.Keywords),
			}
		}

		m := spec.Pattern.FindStringSubmatch(text)
		if m == nil || normalize.Text(m[1]) == "" {
			if spec.Optional {
				continue
			}
			return nil, &invoice.HeaderExtractionError{
				Field:   name,
				Message: fmt.Sprintf("regex %q yielded no match", spec.Regex),
			}
		}
		value := normalize.Text(m[1])

		if spec.DateFormat != "" {
			parsed, err := time.ParseInLocation(spec.DateFormat, value, time.UTC)
			if err != nil {
				return nil, &invoice.HeaderExtractionError{
					Field:   name,
					Message: fmt.Sprintf("parse %q with layout %q: %v", value, spec.DateFormat, err),
				}
			}
			value = parsed.Format(DateLayout)
		}

		results[name] = value
		logger.Debug("extract.header.ok", "field", name, "value", value)
	}

	return results, nil
}

func containsAnyKeyword(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// State reduces a composite "<Name>(<code>)" value to the bare name,
// e.g. "Maharashtra(27)" -> "Maharashtra".
func State(raw string) string {
	return normalize.Text(reStateCode.ReplaceAllString(raw, ""))
}

// GST canonicalizes a vendor GST value: trimmed and uppercased so the
// UNREGISTERED sentinel and GSTIN letters compare exactly. Format checking
// is the validation engine's job.
func GST(raw string) string {
	return strings.ToUpper(normalize.Text(raw))
}

// ParseHeaderDate parses a value previously emitted by Headers for a
// date-formatted field.
func ParseHeaderDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}
