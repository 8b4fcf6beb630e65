// Package assemble converts classified rows and extracted headers into the
// uncertified invoice draft handed to the validation engine.
package assemble

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/classify"
	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

// Assembler builds line items and drafts shaped by one template's tax model.
type Assembler struct {
	tpl    *template.Template
	logger *slog.Logger
}

func New(tpl *template.Template, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{tpl: tpl, logger: logger}
}

// LineItems converts every line_item-tagged row into a canonical LineItem.
// A blank description is a MissingFieldError: an item with no identity
// cannot be reconciled or reported.
func (a *Assembler) LineItems(rows []classify.ClassifiedRow) ([]invoice.LineItem, error) {
	var items []invoice.LineItem
	for _, row := range rows {
		if row.Role != constants.RowRoleLineItem {
			continue
		}
		item, err := a.lineItem(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (a *Assembler) lineItem(row classify.ClassifiedRow) (invoice.LineItem, error) {
	description := normalize.Text(row.Cell(constants.FieldDescription))
	if description == "" {
		return invoice.LineItem{}, &invoice.MissingFieldError{
			Field: constants.FieldDescription,
			Row:   row.Position,
		}
	}

	item := invoice.LineItem{
		Description: description,
		GrossValue:  a.cell(row.RawRow, constants.FieldGrossValue),
		Discount:    a.cell(row.RawRow, constants.FieldDiscount),
		Total:       a.cell(row.RawRow, constants.FieldTotal),
	}

	switch a.tpl.TaxModel {
	case constants.TaxModelCGSTSGST:
		item.Tax = invoice.CGSTSGST{
			NetValue:   a.cell(row.RawRow, constants.FieldNetValue),
			CGSTRate:   a.rate(row.RawRow, constants.FieldCGSTRate),
			CGSTAmount: a.cell(row.RawRow, constants.FieldCGSTAmount),
			SGSTRate:   a.rate(row.RawRow, constants.FieldSGSTRate),
			SGSTAmount: a.cell(row.RawRow, constants.FieldSGSTAmount),
		}
	case constants.TaxModelIGSTCess:
		item.Tax = invoice.IGSTCess{
			TaxableValue: a.cell(row.RawRow, constants.FieldNetValue),
			IGSTRate:     a.rate(row.RawRow, constants.FieldIGSTRate),
			IGSTAmount:   a.cell(row.RawRow, constants.FieldIGSTAmount),
			CessAmount:   a.cell(row.RawRow, constants.FieldCessAmount),
		}
	default:
		return invoice.LineItem{}, fmt.Errorf("unhandled tax model %q", a.tpl.TaxModel)
	}

	return item, nil
}

// cell parses a monetary cell. Malformed text degrades to zero with a
// warning; the arithmetic checks surface the real damage.
func (a *Assembler) cell(row extract.RawRow, field string) decimal.Decimal {
	d, ok := normalize.ParseDecimal(row.Cell(field))
	if !ok {
		a.logger.Warn("assemble.cell.degraded",
			"row", row.Position, "field", field, "value", row.Cell(field))
	}
	return d
}

func (a *Assembler) rate(row extract.RawRow, field string) decimal.Decimal {
	d, ok := normalize.ParsePercentage(row.Cell(field))
	if !ok {
		a.logger.Warn("assemble.cell.degraded",
			"row", row.Position, "field", field, "value", row.Cell(field))
	}
	return d
}

// Draft composes the uncertified aggregate from extracted headers, assembled
// items, and the detected grand total. The invoice date must be a value
// previously emitted by the header extractor.
func (a *Assembler) Draft(headers map[string]string, items []invoice.LineItem, gt classify.GrandTotal) (invoice.Draft, error) {
	date, err := extract.ParseHeaderDate(headers[constants.HeaderInvoiceDate])
	if err != nil {
		return invoice.Draft{}, &invoice.HeaderExtractionError{
			Field:   constants.HeaderInvoiceDate,
			Message: fmt.Sprintf("parse %q: %v", headers[constants.HeaderInvoiceDate], err),
		}
	}
	return invoice.Draft{
		InvoiceNumber:     headers[constants.HeaderInvoiceNumber],
		InvoiceDate:       date,
		VendorName:        headers[constants.HeaderVendorName],
		VendorGST:         extract.GST(headers[constants.HeaderVendorGST]),
		CustomerName:      headers[constants.HeaderCustomerName],
		State:             headers[constants.HeaderState],
		OrderID:           headers[constants.HeaderOrderID],
		TaxModel:          a.tpl.TaxModel,
		LineItems:         items,
		GrandTotalRaw:     gt.Raw,
		GrandTotalRounded: gt.Rounded,
	}, nil
}
