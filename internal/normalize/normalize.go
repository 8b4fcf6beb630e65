// Package normalize canonicalizes raw document text and coerces numeric cell
// text into exact decimals. Nothing here touches binary floating point.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reCurrency   = regexp.MustCompile(`[₹$€£¥]`)
	reParenNeg   = regexp.MustCompile(`^\((.+)\)$`)
	reSignedNum  = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
)

// placeholders are cell values treated as "no value" rather than malformed.
var placeholders = map[string]struct{}{
	"":     {},
	"-":    {},
	"–":    {},
	"—":    {},
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"na":   {},
	"None": {},
	"none": {},
}

// Text trims, collapses internal whitespace (including line breaks embedded
// in multi-line table cells) and normalizes Unicode to NFKC.
func Text(s string) string {
	s = norm.NFKC.String(s)
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// ColumnLabel normalizes a raw header cell for column-mapping lookups.
func ColumnLabel(s string) string {
	return strings.ToLower(Text(s))
}

// ParseDecimal coerces raw cell text into an exact decimal. Steps, in order:
// strip currency symbols and surrounding whitespace, negate parenthesized
// values, drop thousands separators, then parse. Blank and placeholder cells
// yield zero with ok=true. Malformed text yields zero with ok=false so the
// caller can report the degraded cell; arithmetic validation catches the
// damage later. Parenthesization is checked before separator stripping so
// "(1,234.56)" negates correctly.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if _, blank := placeholders[s]; blank {
		return decimal.Zero, true
	}

	s = strings.TrimSpace(reCurrency.ReplaceAllString(s, ""))
	if m := reParenNeg.FindStringSubmatch(s); m != nil {
		s = "-" + strings.TrimSpace(m[1])
	}
	s = strings.ReplaceAll(s, ",", "")

	if _, blank := placeholders[s]; blank {
		return decimal.Zero, true
	}
	if !reSignedNum.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParsePercentage strips a trailing percent marker and parses the remainder.
// The magnitude stays a whole-number percent: "2.5%" parses to 2.5, not 0.025.
func ParsePercentage(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	return ParseDecimal(s)
}
