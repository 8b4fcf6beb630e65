package constants

// Canonical field names. Raw source columns and text fields are mapped onto
// these before any downstream logic touches them.
const (
	FieldDescription = "description"
	FieldGrossValue  = "gross_value"
	FieldDiscount    = "discount"
	FieldNetValue    = "net_value"
	FieldCGSTRate    = "cgst_rate"
	FieldCGSTAmount  = "cgst_amount"
	FieldSGSTRate    = "sgst_rate"
	FieldSGSTAmount  = "sgst_amount"
	FieldIGSTRate    = "igst_rate"
	FieldIGSTAmount  = "igst_amount"
	FieldCessAmount  = "cess_amount"
	FieldTotal       = "total"
)

// Canonical header field names.
const (
	HeaderInvoiceNumber = "invoice_number"
	HeaderInvoiceDate   = "invoice_date"
	HeaderVendorName    = "vendor_name"
	HeaderVendorGST     = "vendor_gst"
	HeaderCustomerName  = "customer_name"
	HeaderState         = "state"
	HeaderOrderID       = "order_id"
)

// GSTUnregistered is the sentinel for vendors with no GSTIN.
const GSTUnregistered = "UNREGISTERED"
