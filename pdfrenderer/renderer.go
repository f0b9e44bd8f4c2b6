// Package pdfrenderer implements C7: a fixed A4 invoice layout rendered
// natively with github.com/go-pdf/fpdf. The Renderer type is the offline
// generalisation of the donor pack's PDFExporter shape
// (noah-isme-odyssey-erp/internal/delivery/export/pdf.go) — an injected
// capability plus parsed state held on the struct, constructed once — with
// the injected capability being a FontResolver instead of an HTTP client,
// since this core must never round-trip to a network rendering service
// (§1, §5, §10.7).
package pdfrenderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/freelancehub/invoicecore/money"
	"github.com/freelancehub/invoicecore/store"
	"github.com/go-pdf/fpdf"
)

// FontResolver is the capability SPEC_FULL.md §9 calls for: a platform-
// probing font lookup with a monospace fallback, injected so the renderer
// never hard-codes absolute system font paths itself.
type FontResolver interface {
	// Resolve registers a UTF-8 TrueType font covering the full Polish
	// alphabet onto pdf (via AddUTF8Font) and returns the family name to
	// pass to SetFont.
	Resolve(pdf *fpdf.Fpdf) (family string, err error)
}

// Renderer produces the A4 PDF document described in §4.7.
type Renderer struct {
	Fonts FontResolver

	SellerName       string
	SellerNIP        string
	SellerAddress    string
	SellerCity       string
	SellerPostalCode string
	SellerEmail      string
	SellerPhone      string
	BankAccount      string
}

var paymentMethodLabels = map[store.PaymentMethod]string{
	store.PaymentCash:         "gotowka",
	store.PaymentBankTransfer: "przelew",
	store.PaymentCard:         "karta",
	store.PaymentOther:        "inne",
}

// Render draws the fixed A4 layout for inv (Client and Items must already be
// loaded) and returns the finished PDF bytes.
func (r *Renderer) Render(inv store.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	family, err := r.Fonts.Resolve(pdf)
	if err != nil {
		return nil, fmt.Errorf("pdfrenderer: resolve font: %w", err)
	}
	pdf.SetFont(family, "", 11)

	r.drawTitle(pdf, family, inv.InvoiceNumber)
	r.drawParties(pdf, family, inv)
	r.drawDatesAndTerms(pdf, family, inv)
	r.drawItemsTable(pdf, family, inv)
	r.drawTotals(pdf, family, inv)
	r.drawBankAndNotes(pdf, family, inv)
	r.drawFooter(pdf, family)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdfrenderer: render output: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawTitle(pdf *fpdf.Fpdf, family, invoiceNumber string) {
	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 10, "FAKTURA VAT", "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 12)
	pdf.CellFormat(0, 8, invoiceNumber, "", 1, "C", false, 0, "")
	pdf.Ln(6)
}

func (r *Renderer) drawParties(pdf *fpdf.Fpdf, family string, inv store.Invoice) {
	colWidth := 90.0
	y0 := pdf.GetY()

	pdf.SetFont(family, "B", 10)
	pdf.CellFormat(colWidth, 6, "Sprzedawca", "", 0, "L", false, 0, "")
	pdf.CellFormat(colWidth, 6, "Nabywca", "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 10)
	sellerLines := partyLines(r.SellerName, r.SellerNIP, r.SellerAddress, r.SellerPostalCode, r.SellerCity, r.SellerEmail, r.SellerPhone)
	buyerLines := partyLines(inv.Client.Name, inv.Client.NIP, inv.Client.Address, inv.Client.PostalCode, inv.Client.City, inv.Client.Email, inv.Client.Phone)

	max := len(sellerLines)
	if len(buyerLines) > max {
		max = len(buyerLines)
	}
	for i := 0; i < max; i++ {
		var left, right string
		if i < len(sellerLines) {
			left = sellerLines[i]
		}
		if i < len(buyerLines) {
			right = buyerLines[i]
		}
		pdf.CellFormat(colWidth, 5, left, "", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, 5, right, "", 1, "L", false, 0, "")
	}

	_ = y0
	pdf.Ln(4)
}

func partyLines(name, nip, address, postalCode, city, email, phone string) []string {
	lines := []string{name, "NIP: " + nip}
	addr := address
	tail := strings.TrimSpace(fmt.Sprintf("%s %s", postalCode, city))
	if tail != "" {
		if addr != "" {
			addr += ", " + tail
		} else {
			addr = tail
		}
	}
	if addr != "" {
		lines = append(lines, addr)
	}
	if email != "" {
		lines = append(lines, "Email: "+email)
	}
	if phone != "" {
		lines = append(lines, "Tel: "+phone)
	}
	return lines
}

func (r *Renderer) drawDatesAndTerms(pdf *fpdf.Fpdf, family string, inv store.Invoice) {
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Data wystawienia: %s", inv.IssueDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Data sprzedazy: %s", inv.SaleDate), "", 1, "L", false, 0, "")
	if inv.PaymentDeadline != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Termin platnosci: %s", inv.PaymentDeadline), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Sposob platnosci: %s", paymentMethodLabels[inv.PaymentMethod]), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Waluta: %s", inv.Currency), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

var tableColumns = []struct {
	header string
	width  float64
}{
	{"Lp.", 10},
	{"Nazwa", 50},
	{"Ilosc", 15},
	{"J.m.", 12},
	{"Cena netto", 22},
	{"VAT", 15},
	{"Netto", 22},
	{"Brutto", 22},
}

func (r *Renderer) drawItemsTable(pdf *fpdf.Fpdf, family string, inv store.Invoice) {
	pdf.SetFont(family, "B", 9)
	for _, col := range tableColumns {
		pdf.CellFormat(col.width, 7, col.header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for i, item := range inv.Items {
		rate, _ := money.ParseVATRate("pdfrenderer", item.VATRate)
		rateText := rate.Raw()
		if rate.IsNumeric() {
			rateText = fmt.Sprintf("%d%%", rate.Percent())
		}

		pdf.CellFormat(tableColumns[0].width, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(tableColumns[1].width, 6, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(tableColumns[2].width, 6, item.Quantity, "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableColumns[3].width, 6, item.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(tableColumns[4].width, 6, money.FormatMoney(money.Grosze(item.UnitPriceGrosze)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableColumns[5].width, 6, rateText, "1", 0, "C", false, 0, "")
		pdf.CellFormat(tableColumns[6].width, 6, money.FormatMoney(money.Grosze(item.NetGrosze)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableColumns[7].width, 6, money.FormatMoney(money.Grosze(item.GrossGrosze)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *Renderer) drawTotals(pdf *fpdf.Fpdf, family string, inv store.Invoice) {
	pdf.SetFont(family, "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Razem netto: %s", money.FormatMoney(money.Grosze(inv.SubtotalGrosze))), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Razem VAT: %s", money.FormatMoney(money.Grosze(inv.TaxGrosze))), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Razem brutto: %s", money.FormatMoney(money.Grosze(inv.TotalGrosze))), "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func (r *Renderer) drawBankAndNotes(pdf *fpdf.Fpdf, family string, inv store.Invoice) {
	pdf.SetFont(family, "", 9)
	if r.BankAccount != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Nr konta: %s", r.BankAccount), "", 1, "L", false, 0, "")
	}
	if inv.Notes != "" {
		pdf.MultiCell(0, 5, fmt.Sprintf("Uwagi: %s", inv.Notes), "", "L", false)
	}
	pdf.Ln(4)
}

func (r *Renderer) drawFooter(pdf *fpdf.Fpdf, family string) {
	pdf.SetFont(family, "I", 8)
	pdf.CellFormat(0, 5, "Dokument wygenerowany automatycznie.", "", 1, "C", false, 0, "")
}
