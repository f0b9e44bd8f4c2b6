package money

// LineAmounts implements the per-line net/VAT/gross computation of §4.1,
// generalising the donor's utils/calculateTaxAndDiscountHelper.go
// (CalculateTaxAmount's tax-exclusive branch: (amount/100)*rate) from
// decimal.Decimal arithmetic to exact integer half-up rounding on grosze.
func LineAmounts(unitPrice Grosze, quantity MilliQuantity, rate VATRate) (net, vat, gross Grosze) {
	net = Grosze(roundHalfUp(int64(unitPrice)*int64(quantity), 1000))

	if rate.IsExempt() {
		vat = 0
	} else {
		vat = Grosze(roundHalfUp(int64(net)*int64(rate.Percent()), 100))
	}

	gross = net + vat
	return net, vat, gross
}

// LineItem is the minimal shape InvoiceTotals needs: the three computed
// per-line amounts.
type LineItem struct {
	Net   Grosze
	VAT   Grosze
	Gross Grosze
}

// InvoiceTotals sums a set of already-computed line amounts independently
// for each column, so that Total == Subtotal + Tax holds by construction
// (§4.1, P3).
func InvoiceTotals(items []LineItem) (subtotal, tax, total Grosze) {
	for _, it := range items {
		subtotal += it.Net
		tax += it.VAT
		total += it.Gross
	}
	return subtotal, tax, total
}
