package classify

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

// GrandTotal is the authoritative document total: as extracted, and
// quantized to two places rounding half away from zero.
type GrandTotal struct {
	Raw     decimal.Decimal
	Rounded decimal.Decimal
}

// GrandTotalFromRows locates the unique total-role row and reads its total
// cell. More than one total row is an error; ambiguity is never resolved by
// picking one. found is false when no total row exists, letting the caller
// fall back to text-regex detection for text-mode templates.
func GrandTotalFromRows(rows []ClassifiedRow, logger *slog.Logger) (GrandTotal, bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var totals []ClassifiedRow
	for _, row := range rows {
		if row.Role == constants.RowRoleTotal {
			totals = append(totals, row)
		}
	}
	switch {
	case len(totals) == 0:
		return GrandTotal{}, false, nil
	case len(totals) > 1:
		return GrandTotal{}, false, &invoice.TableExtractionError{Message: fmt.Sprintf(
			"%d rows matched the grand-total keywords, expected exactly one", len(totals))}
	}

	row := totals[0]
	raw, ok := normalize.ParseDecimal(row.Cell(constants.FieldTotal))
	if !ok {
		logger.Warn("classify.total.degraded",
			"row", row.Position, "value", row.Cell(constants.FieldTotal))
	}
	gt := quantized(raw)
	logger.Debug("classify.total.ok", "row", row.Position, "raw", gt.Raw, "rounded", gt.Rounded)
	return gt, true, nil
}

// GrandTotalFromText applies the template's fallback regex to the full
// document text. Only positive totals are accepted.
func GrandTotalFromText(text string, gt template.GrandTotal) (GrandTotal, error) {
	if gt.Pattern == nil {
		return GrandTotal{}, &invoice.TableExtractionError{Message: "no grand-total row and no fallback regex configured"}
	}
	m := gt.Pattern.FindStringSubmatch(text)
	if m == nil {
		return GrandTotal{}, &invoice.TableExtractionError{Message: fmt.Sprintf(
			"grand-total regex %q yielded no match", gt.Regex)}
	}
	raw, ok := normalize.ParseDecimal(m[1])
	if !ok || !raw.IsPositive() {
		return GrandTotal{}, &invoice.TableExtractionError{Message: fmt.Sprintf(
			"grand-total regex matched unusable value %q", m[1])}
	}
	return quantized(raw), nil
}

// quantized pairs the raw total with its 2-decimal rounding. decimal.Round
// rounds half away from zero, which is the money-boundary rule here.
func quantized(raw decimal.Decimal) GrandTotal {
	return GrandTotal{Raw: raw, Rounded: raw.Round(2)}
}
