// Package validate is the certification gate between extraction and any
// downstream consumer. Certify is the only constructor of invoice.Invoice:
// construction and validation are atomic, and no partially valid aggregate
// is ever observable.
package validate

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
)

// tolerance is the reconciliation bound for every arithmetic check: two
// values agree iff |a-b| < 0.01. A difference of exactly one cent fails.
var tolerance = decimal.New(1, -2)

var reGSTIN = regexp.MustCompile(`^[0-9A-Z]{15}$`)

// Certify runs, in order: completeness, GST format, per-line arithmetic,
// and grand-total reconciliation, short-circuiting on the first failure. On
// success it returns the certified Invoice; on failure it returns a typed
// error and no aggregate exists.
func Certify(d invoice.Draft, logger *slog.Logger) (*invoice.Invoice, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := checkRequired(d); err != nil {
		return nil, err
	}
	if len(d.LineItems) == 0 {
		return nil, &invoice.NoLineItemsError{}
	}
	if err := checkGST(d.VendorGST); err != nil {
		return nil, err
	}
	for i, item := range d.LineItems {
		if err := checkLineItem(i, item); err != nil {
			return nil, err
		}
	}
	if err := checkGrandTotal(d); err != nil {
		return nil, err
	}

	logger.Debug("validate.ok",
		"invoice_number", d.InvoiceNumber,
		"line_items", len(d.LineItems),
		"grand_total", d.GrandTotalRounded,
	)

	items := make([]invoice.LineItem, len(d.LineItems))
	copy(items, d.LineItems)
	return &invoice.Invoice{
		InvoiceNumber:     d.InvoiceNumber,
		InvoiceDate:       d.InvoiceDate,
		VendorName:        d.VendorName,
		VendorGST:         d.VendorGST,
		CustomerName:      d.CustomerName,
		State:             d.State,
		OrderID:           d.OrderID,
		TaxModel:          d.TaxModel,
		LineItems:         items,
		GrandTotalRaw:     d.GrandTotalRaw,
		GrandTotalRounded: d.GrandTotalRounded,
	}, nil
}

func checkRequired(d invoice.Draft) error {
	required := []struct {
		field string
		value string
	}{
		{constants.HeaderInvoiceNumber, d.InvoiceNumber},
		{constants.HeaderVendorName, d.VendorName},
		{constants.HeaderVendorGST, d.VendorGST},
		{constants.HeaderCustomerName, d.CustomerName},
		{constants.HeaderState, d.State},
	}
	for _, r := range required {
		if r.value == "" {
			return &invoice.MissingFieldError{Field: r.field, Row: -1}
		}
	}
	return nil
}

func checkGST(value string) error {
	if value == constants.GSTUnregistered {
		return nil
	}
	if !reGSTIN.MatchString(value) {
		return &invoice.GSTValidationError{Value: value}
	}
	return nil
}

// checkLineItem dispatches on the concrete tax detail. The default case
// exists so a new tax model that misses this switch fails loudly instead of
// passing unchecked.
func checkLineItem(index int, item invoice.LineItem) error {
	switch tax := item.Tax.(type) {
	case invoice.CGSTSGST:
		expectedNet := item.GrossValue.Sub(item.Discount)
		if !within(expectedNet, tax.NetValue) {
			return &invoice.ArithmeticMismatchError{
				Row: index, Context: "net = gross - discount",
				Expected: expectedNet, Actual: tax.NetValue,
			}
		}
		expectedTotal := tax.NetValue.Add(tax.CGSTAmount).Add(tax.SGSTAmount)
		if !within(expectedTotal, item.Total) {
			return &invoice.ArithmeticMismatchError{
				Row: index, Context: "total = net + cgst + sgst",
				Expected: expectedTotal, Actual: item.Total,
			}
		}
	case invoice.IGSTCess:
		expectedTaxable := item.GrossValue.Sub(item.Discount)
		if !within(expectedTaxable, tax.TaxableValue) {
			return &invoice.ArithmeticMismatchError{
				Row: index, Context: "taxable = gross - discount",
				Expected: expectedTaxable, Actual: tax.TaxableValue,
			}
		}
		expectedTotal := tax.TaxableValue.Add(tax.IGSTAmount).Add(tax.CessAmount)
		if !within(expectedTotal, item.Total) {
			return &invoice.ArithmeticMismatchError{
				Row: index, Context: "total = taxable + igst + cess",
				Expected: expectedTotal, Actual: item.Total,
			}
		}
	default:
		return fmt.Errorf("line item %d: unhandled tax detail %T", index, tax)
	}
	return nil
}

func checkGrandTotal(d invoice.Draft) error {
	sum := decimal.Zero
	for _, item := range d.LineItems {
		sum = sum.Add(item.Total)
	}
	if !within(sum, d.GrandTotalRaw) {
		return &invoice.ArithmeticMismatchError{
			Row: -1, Context: "grand total = sum of line item totals",
			Expected: sum, Actual: d.GrandTotalRaw,
		}
	}
	return nil
}

func within(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(tolerance)
}
