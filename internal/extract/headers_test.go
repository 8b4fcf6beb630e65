package extract

import (
	"errors"
	"regexp"
	"testing"

	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

func fieldSpec(regex, dateFormat string, optional bool, keywords ...string) template.FieldSpec {
	return template.FieldSpec{
		Keywords:   keywords,
		Regex:      regex,
		DateFormat: dateFormat,
		Optional:   optional,
		Pattern:    regexp.MustCompile("(?i)" + regex),
	}
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	text := "Tax Invoice\nInvoice No: ZOM-2024-001\nInvoice Date: 15/03/2024\nRestaurant Name: Chapati House\n"

	fields := map[string]template.FieldSpec{
		"invoice_number": fieldSpec(`Invoice\s*No[.:]?\s*([A-Z0-9-]+)`, "", false, "invoice no"),
		"invoice_date":   fieldSpec(`Invoice\s*Date[.:]?\s*(\d{2}/\d{2}/\d{4})`, "02/01/2006", false, "invoice date"),
		"vendor_name":    fieldSpec(`Restaurant\s*Name[.:]?\s*([^\n]+)`, "", false, "restaurant name"),
		"order_id":       fieldSpec(`Order\s*ID[.:]?\s*(\S+)`, "", true, "order id"),
	}

	got, err := Headers(text, fields, nil)
	if err != nil {
		t.Fatalf("Headers: %v", err)
	}
	if got["invoice_number"] != "ZOM-2024-001" {
		t.Errorf("invoice_number = %q", got["invoice_number"])
	}
	if got["invoice_date"] != "2024-03-15" {
		t.Errorf("invoice_date = %q, want canonical 2024-03-15", got["invoice_date"])
	}
	if got["vendor_name"] != "Chapati House" {
		t.Errorf("vendor_name = %q", got["vendor_name"])
	}
	if _, ok := got["order_id"]; ok {
		t.Errorf("optional order_id should be absent, got %q", got["order_id"])
	}
}

func TestHeadersMissingKeyword(t *testing.T) {
	t.Parallel()

	fields := map[string]template.FieldSpec{
		"invoice_number": fieldSpec(`Invoice\s*No[.:]?\s*(\S+)`, "", false, "invoice no"),
	}

	_, err := Headers("nothing relevant here", fields, nil)
	var headerErr *invoice.HeaderExtractionError
	if !errors.As(err, &headerErr) {
		t.Fatalf("expected HeaderExtractionError, got %v", err)
	}
	if headerErr.Field != "invoice_number" {
		t.Errorf("Field = %q", headerErr.Field)
	}
}

func TestHeadersRegexNoMatch(t *testing.T) {
	t.Parallel()

	fields := map[string]template.FieldSpec{
		"invoice_date": fieldSpec(`Invoice\s*Date[.:]?\s*(\d{2}/\d{2}/\d{4})`, "02/01/2006", false, "invoice date"),
	}

	_, err := Headers("Invoice Date: tomorrow", fields, nil)
	var headerErr *invoice.HeaderExtractionError
	if !errors.As(err, &headerErr) {
		t.Fatalf("expected HeaderExtractionError, got %v", err)
	}
}

func TestHeadersBadDate(t *testing.T) {
	t.Parallel()

	fields := map[string]template.FieldSpec{
		"invoice_date": fieldSpec(`Invoice\s*Date[.:]?\s*(\S+)`, "02/01/2006", false, "invoice date"),
	}

	_, err := Headers("Invoice Date: 99/99/2024", fields, nil)
	var headerErr *invoice.HeaderExtractionError
	if !errors.As(err, &headerErr) {
		t.Fatalf("expected HeaderExtractionError, got %v", err)
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Maharashtra(27)", "Maharashtra"},
		{"Karnataka (29)", "Karnataka"},
		{"Delhi", "Delhi"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := State(tc.in); got != tc.want {
			t.Errorf("State(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGST(t *testing.T) {
	t.Parallel()

	if got := GST("  27aafcb7044k1zh "); got != "27AAFCB7044K1ZH" {
		t.Errorf("GST = %q", got)
	}
	if got := GST("unregistered"); got != "UNREGISTERED" {
		t.Errorf("GST = %q", got)
	}
}
