package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1234.56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"₹1,234.56", "1234.56", true},
		{" ₹ 147.00 ", "147", true},
		{"(50.00)", "-50", true},
		{"(1,234.56)", "-1234.56", true},
		{"-50.00", "-50", true},
		{"", "0", true},
		{"-", "0", true},
		{"—", "0", true},
		{"N/A", "0", true},
		{"na", "0", true},
		{"None", "0", true},
		{"₹", "0", true},
		{"abc", "0", false},
		{"12.3.4", "0", false},
	}

	for _, tc := range cases {
		got, ok := ParseDecimal(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseDecimal(%q) ok=%t want=%t", tc.in, ok, tc.ok)
		}
		want := decimal.RequireFromString(tc.want)
		if !got.Equal(want) {
			t.Fatalf("ParseDecimal(%q)=%s want=%s", tc.in, got, want)
		}
	}
}

func TestParsePercentage(t *testing.T) {
	t.Parallel()

	got, ok := ParsePercentage("2.5%")
	if !ok || !got.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("2.5%% -> %s ok=%t", got, ok)
	}
	got, ok = ParsePercentage("2.5")
	if !ok || !got.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("2.5 -> %s ok=%t", got, ok)
	}
	got, ok = ParsePercentage("")
	if !ok || !got.IsZero() {
		t.Fatalf("blank percent -> %s ok=%t", got, ok)
	}
}

func TestText_CollapsesEmbeddedBreaks(t *testing.T) {
	t.Parallel()

	if got := Text("Gross\nvalue"); got != "Gross value" {
		t.Fatalf("got %q", got)
	}
	if got := Text("  a \r\n b\t c  "); got != "a b c" {
		t.Fatalf("got %q", got)
	}
}

func TestColumnLabel(t *testing.T) {
	t.Parallel()

	if got := ColumnLabel("Gross\nValue"); got != "gross value" {
		t.Fatalf("got %q", got)
	}
	if got := ColumnLabel(" CGST\nRate "); got != "cgst rate" {
		t.Fatalf("got %q", got)
	}
}
