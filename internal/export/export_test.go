package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func certifiedCGST() *invoice.Invoice {
	return &invoice.Invoice{
		InvoiceNumber: "ZOM-2024-001",
		InvoiceDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		VendorName:    "Chapati House",
		VendorGST:     "27AAFCB7044K1ZH",
		CustomerName:  "Asha Verma",
		State:         "Maharashtra",
		TaxModel:      constants.TaxModelCGSTSGST,
		LineItems: []invoice.LineItem{
			{
				Description: "Butter Chapati",
				GrossValue:  dec("147.00"),
				Discount:    dec("0"),
				Total:       dec("147.00"),
				Tax: invoice.CGSTSGST{
					NetValue: dec("147.00"),
				},
			},
		},
		GrandTotalRaw:     dec("147"),
		GrandTotalRounded: dec("147.00"),
	}
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	data, err := NewWriter(nil).WriteXLSX(certifiedCGST())
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != summarySheet || sheets[1] != itemsSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	number, err := f.GetCellValue(summarySheet, "B1")
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if number != "ZOM-2024-001" {
		t.Errorf("summary invoice number = %q", number)
	}
	date, _ := f.GetCellValue(summarySheet, "B2")
	if date != "2024-03-15" {
		t.Errorf("summary date = %q", date)
	}

	header, _ := f.GetCellValue(itemsSheet, "D1")
	if header != "Net Value" {
		t.Errorf("items D1 = %q, want tax-model-specific column", header)
	}
	desc, _ := f.GetCellValue(itemsSheet, "A2")
	if desc != "Butter Chapati" {
		t.Errorf("items A2 = %q", desc)
	}
	total, _ := f.GetCellValue(itemsSheet, "I2")
	if total != "147.00" {
		t.Errorf("items I2 = %q, want money number format", total)
	}
	rate, _ := f.GetCellValue(itemsSheet, "E2")
	if rate != "0.00%" {
		t.Errorf("items E2 = %q, want percent number format", rate)
	}
}

func TestWriteXLSXIGSTCess(t *testing.T) {
	t.Parallel()

	inv := certifiedCGST()
	inv.TaxModel = constants.TaxModelIGSTCess
	inv.OrderID = "OD123456789012345"
	inv.LineItems = []invoice.LineItem{
		{
			Description: "Wireless Optical Mouse",
			GrossValue:  dec("1060.00"),
			Discount:    dec("100.00"),
			Total:       dec("1008.00"),
			Tax: invoice.IGSTCess{
				TaxableValue: dec("960.00"),
				IGSTRate:     dec("5"),
				IGSTAmount:   dec("48.00"),
			},
		},
	}

	data, err := NewWriter(nil).WriteXLSX(inv)
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	header, _ := f.GetCellValue(itemsSheet, "D1")
	if header != "Taxable Value" {
		t.Errorf("items D1 = %q", header)
	}
	gross, _ := f.GetCellValue(itemsSheet, "B2")
	if gross != "1,060.00" {
		t.Errorf("items B2 = %q, want thousands separator", gross)
	}
	rate, _ := f.GetCellValue(itemsSheet, "E2")
	if rate != "5.00%" {
		t.Errorf("items E2 = %q, want percent number format", rate)
	}
	orderKey, _ := f.GetCellValue(summarySheet, "A7")
	if orderKey != "Order ID" {
		t.Errorf("summary A7 = %q, want Order ID row when present", orderKey)
	}
}

func TestWriteXLSXUnknownTaxDetail(t *testing.T) {
	t.Parallel()

	inv := certifiedCGST()
	inv.LineItems[0].Tax = nil

	if _, err := NewWriter(nil).WriteXLSX(inv); err == nil {
		t.Fatal("expected error for unhandled tax detail")
	}
}
