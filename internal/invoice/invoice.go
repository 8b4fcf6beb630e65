// Package invoice holds the domain aggregates produced by the extraction
// pipeline and the typed failure taxonomy raised along the way.
package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// TaxComponent is one named (rate, amount) slice of a line item's tax.
// Rates are whole-number percents: 2.50 means 2.5%.
type TaxComponent struct {
	Name   string
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// TaxDetail is the closed set of tax-model-specific line item shapes.
// Adding a model means a new implementation here plus a new case in every
// switch that dispatches on the concrete type; the default branches turn a
// forgotten case into an immediate error instead of silently wrong math.
type TaxDetail interface {
	Model() constants.TaxModel
	// Net is the model-specific net/taxable base.
	Net() decimal.Decimal
	Components() []TaxComponent
}

// CGSTSGST carries symmetric central/state components over one net value.
type CGSTSGST struct {
	NetValue   decimal.Decimal
	CGSTRate   decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTRate   decimal.Decimal
	SGSTAmount decimal.Decimal
}

func (d CGSTSGST) Model() constants.TaxModel { return constants.TaxModelCGSTSGST }
func (d CGSTSGST) Net() decimal.Decimal      { return d.NetValue }

func (d CGSTSGST) Components() []TaxComponent {
	return []TaxComponent{
		{Name: "CGST", Rate: d.CGSTRate, Amount: d.CGSTAmount},
		{Name: "SGST", Rate: d.SGSTRate, Amount: d.SGSTAmount},
	}
}

// IGSTCess carries one integrated component plus an optional cess levy.
// CessAmount is zero when the source column is absent or blank.
type IGSTCess struct {
	TaxableValue decimal.Decimal
	IGSTRate     decimal.Decimal
	IGSTAmount   decimal.Decimal
	CessAmount   decimal.Decimal
}

func (d IGSTCess) Model() constants.TaxModel { return constants.TaxModelIGSTCess }
func (d IGSTCess) Net() decimal.Decimal      { return d.TaxableValue }

func (d IGSTCess) Components() []TaxComponent {
	comps := []TaxComponent{
		{Name: "IGST", Rate: d.IGSTRate, Amount: d.IGSTAmount},
	}
	if !d.CessAmount.IsZero() {
		comps = append(comps, TaxComponent{Name: "CESS", Amount: d.CessAmount})
	}
	return comps
}

// LineItem is a single billed row from the invoice.
type LineItem struct {
	Description string
	GrossValue  decimal.Decimal
	Discount    decimal.Decimal
	Tax         TaxDetail
	Total       decimal.Decimal
}

// Draft is the uncertified pipeline output handed to the validation engine.
// Nothing outside the engine should treat a Draft as trustworthy data.
type Draft struct {
	InvoiceNumber     string
	InvoiceDate       time.Time
	VendorName        string
	VendorGST         string
	CustomerName      string
	State             string
	OrderID           string
	TaxModel          constants.TaxModel
	LineItems         []LineItem
	GrandTotalRaw     decimal.Decimal
	GrandTotalRounded decimal.Decimal
}

// Invoice is the certified aggregate. Instances are created only by
// validate.Certify once every completeness, format, and arithmetic check has
// passed; there is no partially valid Invoice.
type Invoice struct {
	InvoiceNumber     string
	InvoiceDate       time.Time
	VendorName        string
	VendorGST         string
	CustomerName      string
	State             string
	OrderID           string // present only for text-mode templates
	TaxModel          constants.TaxModel
	LineItems         []LineItem
	GrandTotalRaw     decimal.Decimal
	GrandTotalRounded decimal.Decimal
}
