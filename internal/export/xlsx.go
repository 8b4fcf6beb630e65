// Package export renders certified invoices as XLSX workbooks.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
)

const (
	summarySheet = "Invoice Summary"
	itemsSheet   = "Line Items"
)

// Number formats for line-item cells. Rates are whole-number percents, so
// the percent format appends a literal sign instead of scaling by 100.
const (
	moneyFormat   = "#,##0.00"
	percentFormat = `0.00"%"`
)

// Writer produces XLSX bytes for certified invoices.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteXLSX returns a two-sheet workbook: a key/value summary sheet and a
// line-item sheet whose columns depend on the invoice's tax model.
func (w *Writer) WriteXLSX(inv *invoice.Invoice) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx summary sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("xlsx items sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(summarySheet)
	f.SetActiveSheet(activeIndex)

	if err := w.writeSummary(f, inv); err != nil {
		return nil, err
	}
	if err := w.writeItems(f, inv); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("export.xlsx.ok",
		"invoice_number", inv.InvoiceNumber,
		"tax_model", string(inv.TaxModel),
		"rows", len(inv.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteFile writes the workbook to path.
func (w *Writer) WriteFile(inv *invoice.Invoice, path string) error {
	data, err := w.WriteXLSX(inv)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w *Writer) writeSummary(f *excelize.File, inv *invoice.Invoice) error {
	pairs := [][2]string{
		{"Invoice Number", inv.InvoiceNumber},
		{"Invoice Date", inv.InvoiceDate.Format(extract.DateLayout)},
		{"Vendor Name", inv.VendorName},
		{"Vendor GST", inv.VendorGST},
		{"Customer Name", inv.CustomerName},
		{"State", inv.State},
	}
	if inv.OrderID != "" {
		pairs = append(pairs, [2]string{"Order ID", inv.OrderID})
	}
	pairs = append(pairs,
		[2]string{"Tax Model", string(inv.TaxModel)},
		[2]string{"Grand Total", inv.GrandTotalRounded.StringFixed(2)},
	)

	for i, p := range pairs {
		row := i + 1
		keyCell, _ := excelize.CoordinatesToCellName(1, row)
		valCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(summarySheet, keyCell, p[0]); err != nil {
			return fmt.Errorf("xlsx summary cell: %w", err)
		}
		if err := f.SetCellValue(summarySheet, valCell, p[1]); err != nil {
			return fmt.Errorf("xlsx summary cell: %w", err)
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 36)
	return nil
}

func (w *Writer) writeItems(f *excelize.File, inv *invoice.Invoice) error {
	headers, formats, err := itemColumns(inv.TaxModel)
	if err != nil {
		return err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(itemsSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx items header: %w", err)
		}
	}

	for i, item := range inv.LineItems {
		row := i + 2
		cells, err := itemCells(item)
		if err != nil {
			return err
		}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(itemsSheet, cell, v); err != nil {
				return fmt.Errorf("xlsx items cell: %w", err)
			}
		}
	}

	if err := applyItemFormats(f, formats, len(inv.LineItems)); err != nil {
		return err
	}

	_ = f.SetColWidth(itemsSheet, "A", "A", 48)
	last, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(itemsSheet, "B", last, 14)
	return nil
}

// applyItemFormats styles the numeric columns of the line-item sheet. The
// description column stays unformatted.
func applyItemFormats(f *excelize.File, formats []string, rows int) error {
	if rows == 0 {
		return nil
	}

	styles := make(map[string]int, 2)
	for col, format := range formats {
		if format == "" {
			continue
		}
		style, ok := styles[format]
		if !ok {
			numFmt := format
			var err error
			style, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
			if err != nil {
				return fmt.Errorf("xlsx number format: %w", err)
			}
			styles[format] = style
		}
		top, _ := excelize.CoordinatesToCellName(col+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(col+1, rows+1)
		if err := f.SetCellStyle(itemsSheet, top, bottom, style); err != nil {
			return fmt.Errorf("xlsx cell style: %w", err)
		}
	}
	return nil
}

// itemColumns returns the header labels and per-column number formats for
// the invoice's tax model.
func itemColumns(model constants.TaxModel) ([]string, []string, error) {
	switch model {
	case constants.TaxModelCGSTSGST:
		return []string{
				"Description", "Gross Value", "Discount", "Net Value",
				"CGST Rate", "CGST Amount", "SGST Rate", "SGST Amount", "Total",
			}, []string{
				"", moneyFormat, moneyFormat, moneyFormat,
				percentFormat, moneyFormat, percentFormat, moneyFormat, moneyFormat,
			}, nil
	case constants.TaxModelIGSTCess:
		return []string{
				"Description", "Gross Value", "Discount", "Taxable Value",
				"IGST Rate", "IGST Amount", "Cess Amount", "Total",
			}, []string{
				"", moneyFormat, moneyFormat, moneyFormat,
				percentFormat, moneyFormat, moneyFormat, moneyFormat,
			}, nil
	default:
		return nil, nil, fmt.Errorf("unhandled tax model %q", model)
	}
}

// itemCells flattens one line item into the column order of itemColumns.
// Numeric cells are written as numbers and rendered through the column's
// number format.
func itemCells(item invoice.LineItem) ([]any, error) {
	switch tax := item.Tax.(type) {
	case invoice.CGSTSGST:
		return []any{
			item.Description,
			item.GrossValue.InexactFloat64(),
			item.Discount.InexactFloat64(),
			tax.NetValue.InexactFloat64(),
			tax.CGSTRate.InexactFloat64(),
			tax.CGSTAmount.InexactFloat64(),
			tax.SGSTRate.InexactFloat64(),
			tax.SGSTAmount.InexactFloat64(),
			item.Total.InexactFloat64(),
		}, nil
	case invoice.IGSTCess:
		return []any{
			item.Description,
			item.GrossValue.InexactFloat64(),
			item.Discount.InexactFloat64(),
			tax.TaxableValue.InexactFloat64(),
			tax.IGSTRate.InexactFloat64(),
			tax.IGSTAmount.InexactFloat64(),
			tax.CessAmount.InexactFloat64(),
			item.Total.InexactFloat64(),
		}, nil
	default:
		return nil, fmt.Errorf("unhandled tax detail %T", item.Tax)
	}
}
