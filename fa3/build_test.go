package fa3

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/freelancehub/invoicecore/store"
)

func baseInvoice() store.Invoice {
	return store.Invoice{
		InvoiceNumber: "FV/2026/01/0001",
		IssueDate:     "2026-01-15",
		SaleDate:      "2026-01-15",
		Currency:      "PLN",
		TotalGrosze:   12300,
		Client: store.Client{
			Name: "Buyer Sp. z o.o.",
			NIP:  "1234563218",
		},
	}
}

func seller() SellerInfo {
	return SellerInfo{NIP: "9876543210", Name: "Seller Sp. z o.o.", Street: "ul. Testowa 1", City: "Warszawa", PostalCode: "00-001"}
}

// TestBuildSingle23PercentLine covers S1.
func TestBuildSingle23PercentLine(t *testing.T) {
	inv := baseInvoice()
	inv.Items = []store.InvoiceItem{
		{Name: "A", Quantity: "1", Unit: "szt", UnitPriceGrosze: 10000, VATRate: "23", NetGrosze: 10000, VATGrosze: 2300, GrossGrosze: 12300},
	}

	doc, err := Build(BuildInput{Invoice: inv, Seller: seller(), SystemInfo: "invoicecore", GeneratedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if doc.Fa.P13_1 != "100.00" || doc.Fa.P14_1 != "23.00" {
		t.Errorf("P13_1/P14_1 = %q/%q", doc.Fa.P13_1, doc.Fa.P14_1)
	}
	if doc.Fa.P15 != "123.00" {
		t.Errorf("P15 = %q", doc.Fa.P15)
	}
	if len(doc.Fa.FaWiersz) != 1 || doc.Fa.FaWiersz[0].P12 != "23" {
		t.Errorf("FaWiersz = %+v", doc.Fa.FaWiersz)
	}
	if doc.Fa.Adnotacje.Zwolnienie.P19N != 1 {
		t.Errorf("expected P19N=1 for non-exempt invoice, got %+v", doc.Fa.Adnotacje.Zwolnienie)
	}
}

// TestBuildMixedRates covers S2: both P13_1/P14_1 and P13_2/P14_2 present,
// P13_3/P14_3 absent.
func TestBuildMixedRates(t *testing.T) {
	inv := baseInvoice()
	inv.Items = []store.InvoiceItem{
		{Name: "Usluga A", Quantity: "1", Unit: "szt", UnitPriceGrosze: 10000, VATRate: "23", NetGrosze: 10000, VATGrosze: 2300, GrossGrosze: 12300},
		{Name: "Usluga B", Quantity: "2.5", Unit: "h", UnitPriceGrosze: 8000, VATRate: "8", NetGrosze: 20000, VATGrosze: 1600, GrossGrosze: 21600},
	}

	doc, err := Build(BuildInput{Invoice: inv, Seller: seller(), SystemInfo: "invoicecore", GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if doc.Fa.P13_1 != "100.00" || doc.Fa.P14_1 != "23.00" {
		t.Errorf("P13_1/P14_1 = %q/%q", doc.Fa.P13_1, doc.Fa.P14_1)
	}
	if doc.Fa.P13_2 != "200.00" || doc.Fa.P14_2 != "16.00" {
		t.Errorf("P13_2/P14_2 = %q/%q", doc.Fa.P13_2, doc.Fa.P14_2)
	}
	if doc.Fa.P13_3 != "" || doc.Fa.P14_3 != "" {
		t.Errorf("expected P13_3/P14_3 absent, got %q/%q", doc.Fa.P13_3, doc.Fa.P14_3)
	}
}

// TestBuildExemptInvoice covers S3.
func TestBuildExemptInvoice(t *testing.T) {
	inv := baseInvoice()
	inv.Items = []store.InvoiceItem{
		{Name: "A", Quantity: "3", Unit: "szt", UnitPriceGrosze: 5000, VATRate: "ZW", NetGrosze: 15000, VATGrosze: 0, GrossGrosze: 15000},
	}

	doc, err := Build(BuildInput{Invoice: inv, Seller: seller(), SystemInfo: "invoicecore", GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if doc.Fa.P13_7 != "150.00" {
		t.Errorf("P13_7 = %q", doc.Fa.P13_7)
	}
	if doc.Fa.P13_1 != "" || doc.Fa.P14_1 != "" {
		t.Errorf("expected P13_1/P14_1 absent for exempt invoice, got %q/%q", doc.Fa.P13_1, doc.Fa.P14_1)
	}
	if doc.Fa.Adnotacje.Zwolnienie.P19 != 1 || doc.Fa.Adnotacje.Zwolnienie.P19C != "zw" {
		t.Errorf("expected Zwolnienie{P19:1, P19C:zw}, got %+v", doc.Fa.Adnotacje.Zwolnienie)
	}
	if doc.Fa.FaWiersz[0].P12 != "zw" {
		t.Errorf("expected line P12=zw, got %q", doc.Fa.FaWiersz[0].P12)
	}
}

func TestAssembleAddressLine(t *testing.T) {
	got := assembleAddressLine("ul. Testowa 1", "00-001", "Warszawa")
	if got != "ul. Testowa 1, 00-001 Warszawa" {
		t.Errorf("got %q", got)
	}
	got = assembleAddressLine("", "", "Warszawa")
	if got != "Warszawa" {
		t.Errorf("got %q", got)
	}
	got = assembleAddressLine("", "", "")
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestWriteProducesValidXML(t *testing.T) {
	inv := baseInvoice()
	inv.Items = []store.InvoiceItem{
		{Name: "A", Quantity: "1", Unit: "szt", UnitPriceGrosze: 10000, VATRate: "23", NetGrosze: 10000, VATGrosze: 2300, GrossGrosze: 12300},
	}
	doc, err := Build(BuildInput{Invoice: inv, Seller: seller(), SystemInfo: "invoicecore", GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	path := t.TempDir() + "/out.xml"
	if err := Write(doc, path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	content := string(b)
	if !strings.Contains(content, "<?xml") {
		t.Error("expected XML declaration")
	}
	if !strings.Contains(content, namespace) {
		t.Error("expected namespace in output")
	}
}
