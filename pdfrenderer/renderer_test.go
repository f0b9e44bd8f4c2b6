package pdfrenderer

import (
	"testing"

	"github.com/freelancehub/invoicecore/store"
	"github.com/go-pdf/fpdf"
)

// coreFontResolver uses one of fpdf's built-in core fonts, which need no
// AddUTF8Font call, so tests don't depend on any font file being present on
// the machine running them.
type coreFontResolver struct{}

func (coreFontResolver) Resolve(pdf *fpdf.Fpdf) (string, error) {
	return "Helvetica", nil
}

func testInvoice() store.Invoice {
	return store.Invoice{
		InvoiceNumber:   "FV/2026/01/0001",
		IssueDate:       "2026-01-15",
		SaleDate:        "2026-01-15",
		Currency:        "PLN",
		PaymentMethod:   store.PaymentBankTransfer,
		SubtotalGrosze:  10000,
		TaxGrosze:       2300,
		TotalGrosze:     12300,
		Client: store.Client{
			Name: "Buyer Sp. z o.o.",
			NIP:  "1234563218",
			City: "Krakow",
		},
		Items: []store.InvoiceItem{
			{Name: "Usluga", Quantity: "1", Unit: "szt", UnitPriceGrosze: 10000, VATRate: "23", NetGrosze: 10000, VATGrosze: 2300, GrossGrosze: 12300},
		},
	}
}

func TestRenderProducesNonEmptyPDF(t *testing.T) {
	r := &Renderer{
		Fonts:      coreFontResolver{},
		SellerName: "Seller Sp. z o.o.",
		SellerNIP:  "9876543210",
		SellerCity: "Warszawa",
	}

	out, err := r.Render(testInvoice())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if string(out[:4]) != "%PDF" {
		t.Errorf("expected PDF magic header, got %q", out[:4])
	}
}

func TestPartyLinesOmitsEmptyFields(t *testing.T) {
	lines := partyLines("Acme", "1234563218", "", "", "Warszawa", "", "")
	for _, l := range lines {
		if l == "Email: " || l == "Tel: " {
			t.Errorf("expected empty contact fields to be omitted, got %q", l)
		}
	}
	found := false
	for _, l := range lines {
		if l == "Warszawa" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected city-only address line, got %v", lines)
	}
}
