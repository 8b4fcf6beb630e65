package constants

// TaxModel selects the tax component shape a template produces.
type TaxModel string

// Stable values (these exact strings appear in template files).
const (
	TaxModelCGSTSGST TaxModel = "cgst_sgst" // central + state components over one net value
	TaxModelIGSTCess TaxModel = "igst_cess" // integrated component plus optional cess levy
)

var allTaxModels = []TaxModel{TaxModelCGSTSGST, TaxModelIGSTCess}

// Valid reports whether m is one of the supported tax models.
func (m TaxModel) Valid() bool {
	for _, known := range allTaxModels {
		if m == known {
			return true
		}
	}
	return false
}

// TaxModelStrings returns the supported tax model tags for error messages.
func TaxModelStrings() []string {
	result := make([]string, len(allTaxModels))
	for i, m := range allTaxModels {
		result[i] = string(m)
	}
	return result
}

// RowRole is the classification assigned to a normalized table row.
// Role assignment is final; no row is reclassified downstream.
type RowRole string

const (
	RowRoleLineItem RowRole = "line_item"
	RowRoleSummary  RowRole = "summary"
	RowRoleTotal    RowRole = "total"
)

// TableMode selects how line items are located in the source document.
type TableMode string

const (
	TableModeLattice TableMode = "lattice" // bordered table via the geometry extractor
	TableModeText    TableMode = "text"    // free-text parsing across pages
)

// Valid reports whether m is a supported table mode.
func (m TableMode) Valid() bool {
	return m == TableModeLattice || m == TableModeText
}
