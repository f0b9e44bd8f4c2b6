package fa3

import (
	"fmt"
	"strings"
	"time"

	"github.com/freelancehub/invoicecore/money"
	"github.com/freelancehub/invoicecore/store"
)

// SellerInfo is the core's single, fixed business identity (§10.2) —
// unlike the donor's multi-tenant model, there is exactly one seller.
type SellerInfo struct {
	NIP        string
	Name       string
	Street     string
	City       string
	PostalCode string
	Email      string
	Phone      string
}

// BuildInput carries everything Build needs to assemble a Faktura document.
type BuildInput struct {
	Invoice     store.Invoice
	Seller      SellerInfo
	SystemInfo  string
	GeneratedAt time.Time
}

// Build assembles the FA(3) document tree for a single invoice (§4.6). The
// invoice's Client and Items associations must already be loaded.
func Build(input BuildInput) (*Faktura, error) {
	inv := input.Invoice

	rateNet := map[string]money.Grosze{}
	rateVAT := map[string]money.Grosze{}
	anyExempt := false

	rows := make([]FaWiersz, 0, len(inv.Items))
	for i, item := range inv.Items {
		rate, err := money.ParseVATRate("fa3.Build", item.VATRate)
		if err != nil {
			return nil, err
		}
		if rate.IsExempt() && rate.Raw() == "ZW" {
			anyExempt = true
		}

		rateNet[item.VATRate] += money.Grosze(item.NetGrosze)
		rateVAT[item.VATRate] += money.Grosze(item.VATGrosze)

		rows = append(rows, FaWiersz{
			NrWierszaFa: i + 1,
			P7:          item.Name,
			P8A:         item.Unit,
			P8B:         item.Quantity,
			P9A:         money.FormatMoney(money.Grosze(item.UnitPriceGrosze)),
			P11:         money.FormatMoney(money.Grosze(item.NetGrosze)),
			P12:         rate.P12Tag(),
		})
	}

	fa := Fa{
		KodWaluty:     inv.Currency,
		P1:            inv.IssueDate,
		P2:            inv.InvoiceNumber,
		P6:            inv.SaleDate,
		P15:           money.FormatMoney(money.Grosze(inv.TotalGrosze)),
		RodzajFaktury: "VAT",
		FaWiersz:      rows,
	}

	if net, ok := rateNet["23"]; ok {
		fa.P13_1 = money.FormatMoney(net)
		fa.P14_1 = money.FormatMoney(rateVAT["23"])
	}
	if net, ok := rateNet["8"]; ok {
		fa.P13_2 = money.FormatMoney(net)
		fa.P14_2 = money.FormatMoney(rateVAT["8"])
	}
	if net, ok := rateNet["5"]; ok {
		fa.P13_3 = money.FormatMoney(net)
		fa.P14_3 = money.FormatMoney(rateVAT["5"])
	}
	if net, ok := rateNet["0"]; ok {
		fa.P13_6_1 = money.FormatMoney(net)
	}
	if net, ok := rateNet["ZW"]; ok {
		fa.P13_7 = money.FormatMoney(net)
	}
	if net, ok := rateNet["NP"]; ok {
		fa.P13_8 = money.FormatMoney(net)
	}

	zwolnienie := Zwolnienie{P19N: 1}
	if anyExempt {
		zwolnienie = Zwolnienie{P19: 1, P19C: "zw"}
	}

	fa.Adnotacje = Adnotacje{
		P16:                  2,
		P17:                  2,
		P18:                  2,
		P18A:                 2,
		Zwolnienie:           zwolnienie,
		NoweSrodkiTransportu: NoweSrodkiTransportu{P22N: 1},
		P23:                  2,
		PMarzy:               PMarzy{PPMarzyN: 1},
	}

	var contact *DaneKontaktowe
	if input.Seller.Email != "" || input.Seller.Phone != "" {
		contact = &DaneKontaktowe{Email: input.Seller.Email, Telefon: input.Seller.Phone}
	}

	doc := &Faktura{
		Xmlns: namespace,
		Naglowek: Naglowek{
			KodFormularza: KodFormularza{
				KodSystemowy: "FA (3)",
				WersjaSchemy: "1-0E",
				Value:        "FA",
			},
			WariantFormularza: 3,
			DataWytworzeniaFa: input.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
			SystemInfo:        input.SystemInfo,
		},
		Podmiot1: Podmiot1{
			DaneIdentyfikacyjne: DaneIdentyfikacyjneSeller{NIP: input.Seller.NIP, Nazwa: input.Seller.Name},
			Adres: Adres{
				KodKraju: "PL",
				AdresL1:  assembleAddressLine(input.Seller.Street, input.Seller.PostalCode, input.Seller.City),
			},
			DaneKontaktowe: contact,
		},
		Podmiot2: Podmiot2{
			DaneIdentyfikacyjne: DaneIdentyfikacyjneBuyer{NIP: inv.Client.NIP, Nazwa: inv.Client.Name},
			JST:                 2,
			GV:                  2,
		},
		Fa: fa,
	}

	if line := assembleAddressLine(inv.Client.Address, inv.Client.PostalCode, inv.Client.City); line != "" {
		doc.Podmiot2.Adres = &Adres{KodKraju: "PL", AdresL1: line}
	}

	return doc, nil
}

// assembleAddressLine implements the §4.6 "<street>, <postal_code> <city>"
// assembly rule with empty parts elided.
func assembleAddressLine(street, postalCode, city string) string {
	var parts []string
	if street != "" {
		parts = append(parts, street)
	}
	tail := strings.TrimSpace(fmt.Sprintf("%s %s", postalCode, city))
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}
