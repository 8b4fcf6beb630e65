package invoice

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TemplateError reports an unusable template configuration: missing
// sections, a regex that fails to compile, or an unknown tax model tag.
type TemplateError struct {
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template: %s", e.Message)
}

// DocumentLoadError reports a missing, unreadable, or non-PDF input file.
type DocumentLoadError struct {
	Path    string
	Message string
}

func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("load %s: %s", e.Path, e.Message)
}

// UnsupportedDocumentError reports a document with no extractable text layer.
type UnsupportedDocumentError struct {
	Path string
}

func (e *UnsupportedDocumentError) Error() string {
	return fmt.Sprintf("%s: no extractable text (scanned or image-based document)", e.Path)
}

// TableExtractionError reports that no table matched the template's columns,
// or that the grand-total row was missing or ambiguous.
type TableExtractionError struct {
	Message string
}

func (e *TableExtractionError) Error() string {
	return fmt.Sprintf("table extraction: %s", e.Message)
}

// HeaderExtractionError reports a required header field that could not be
// located in the document text.
type HeaderExtractionError struct {
	Field   string
	Message string
}

func (e *HeaderExtractionError) Error() string {
	return fmt.Sprintf("header field %q: %s", e.Field, e.Message)
}

// MissingFieldError reports a required value that was empty after
// extraction. Row is the source row ordinal, or -1 when not row-scoped.
type MissingFieldError struct {
	Field string
	Row   int
}

func (e *MissingFieldError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("required field %q is empty on row %d", e.Field, e.Row)
	}
	return fmt.Sprintf("required field %q is empty", e.Field)
}

// GSTValidationError reports a vendor GST value that is neither the
// UNREGISTERED sentinel nor a 15-character GSTIN.
type GSTValidationError struct {
	Value string
}

func (e *GSTValidationError) Error() string {
	return fmt.Sprintf("invalid GSTIN %q: expected 15 uppercase alphanumerics or UNREGISTERED", e.Value)
}

// ArithmeticMismatchError reports two values that failed to reconcile within
// tolerance. Row is the offending line item ordinal, or -1 for the
// grand-total check. Context names the equation that failed.
type ArithmeticMismatchError struct {
	Row      int
	Context  string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *ArithmeticMismatchError) Error() string {
	diff := e.Expected.Sub(e.Actual).Abs()
	if e.Row >= 0 {
		return fmt.Sprintf("line item %d: %s mismatch: expected %s, got %s (diff %s)",
			e.Row, e.Context, e.Expected, e.Actual, diff)
	}
	return fmt.Sprintf("%s mismatch: expected %s, got %s (diff %s)",
		e.Context, e.Expected, e.Actual, diff)
}

// NoLineItemsError reports that zero valid line items were extracted.
type NoLineItemsError struct{}

func (e *NoLineItemsError) Error() string {
	return "no line items were extracted from the invoice"
}

// FailureKind maps a pipeline error to its taxonomy name for reporting.
// Unrecognized errors report as "Error".
func FailureKind(err error) string {
	var (
		templateErr    *TemplateError
		loadErr        *DocumentLoadError
		unsupportedErr *UnsupportedDocumentError
		tableErr       *TableExtractionError
		headerErr      *HeaderExtractionError
		missingErr     *MissingFieldError
		gstErr         *GSTValidationError
		arithmeticErr  *ArithmeticMismatchError
		noItemsErr     *NoLineItemsError
	)
	switch {
	case errors.As(err, &templateErr):
		return "TemplateError"
	case errors.As(err, &loadErr):
		return "DocumentLoadError"
	case errors.As(err, &unsupportedErr):
		return "UnsupportedDocumentError"
	case errors.As(err, &tableErr):
		return "TableExtractionError"
	case errors.As(err, &headerErr):
		return "HeaderExtractionError"
	case errors.As(err, &missingErr):
		return "MissingFieldError"
	case errors.As(err, &gstErr):
		return "GSTValidationError"
	case errors.As(err, &arithmeticErr):
		return "ArithmeticMismatchError"
	case errors.As(err, &noItemsErr):
		return "NoLineItemsError"
	default:
		return "Error"
	}
}
