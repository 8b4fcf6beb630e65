// Package classify assigns semantic roles to normalized table rows and
// locates the authoritative grand total.
package classify

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

// ClassifiedRow is a RawRow plus its final role. Rows are never reclassified
// downstream.
type ClassifiedRow struct {
	extract.RawRow
	Role constants.RowRole
}

// Rows classifies each row by keyword membership on its normalized
// description cell. Exclude keywords mark the grand-total row and win over
// summary keywords; everything else is a line item, including charge and fee
// rows. Classification is keyword-driven, never inferred from numeric shape
// or row position.
func Rows(rows []extract.RawRow, rc template.RowClassification, logger *slog.Logger) []ClassifiedRow {
	if logger == nil {
		logger = slog.Default()
	}

	classified := make([]ClassifiedRow, 0, len(rows))
	counts := map[constants.RowRole]int{}
	for _, row := range rows {
		desc := strings.ToLower(normalize.Text(row.Cell(constants.FieldDescription)))

		role := constants.RowRoleLineItem
		switch {
		case matchesKeyword(desc, rc.ExcludeKeywords):
			role = constants.RowRoleTotal
		case matchesKeyword(desc, rc.SummaryKeywords):
			role = constants.RowRoleSummary
		}

		counts[role]++
		classified = append(classified, ClassifiedRow{RawRow: row, Role: role})
	}

	logger.Debug("classify.rows.ok",
		"line_items", counts[constants.RowRoleLineItem],
		"summaries", counts[constants.RowRoleSummary],
		"totals", counts[constants.RowRoleTotal],
	)
	return classified
}

func matchesKeyword(desc string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(desc, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
