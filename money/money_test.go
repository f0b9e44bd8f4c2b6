package money

import "testing"

func TestParseMoneyFormatMoneyRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "100", "100.00"},
		{"one fractional digit", "100.5", "100.50"},
		{"two fractional digits", "100.50", "100.50"},
		{"comma separator", "100,50", "100.50"},
		{"zero", "0", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseMoney("test", tt.input)
			if err != nil {
				t.Fatalf("ParseMoney(%q) error: %v", tt.input, err)
			}
			got := FormatMoney(g)
			if got != tt.want {
				t.Errorf("FormatMoney(ParseMoney(%q)) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMoneyRejectsInvalid(t *testing.T) {
	for _, s := range []string{"-1", "1.234", "abc", ""} {
		if _, err := ParseMoney("test", s); err == nil {
			t.Errorf("ParseMoney(%q) expected error, got none", s)
		}
	}
}

func TestParseQuantityRejectsNonPositive(t *testing.T) {
	for _, s := range []string{"0", "-1", "0.000"} {
		if _, err := ParseQuantity("test", s); err == nil {
			t.Errorf("ParseQuantity(%q) expected error, got none", s)
		}
	}
}

func TestNormaliseQuantity(t *testing.T) {
	tests := []struct {
		milli MilliQuantity
		want  string
	}{
		{1000, "1"},
		{2500, "2.5"},
		{100, "0.1"},
		{1230, "1.23"},
		{10, "0.01"},
	}
	for _, tt := range tests {
		if got := NormaliseQuantity(tt.milli); got != tt.want {
			t.Errorf("NormaliseQuantity(%d) = %q, want %q", tt.milli, got, tt.want)
		}
	}
}

// TestLineAmounts covers the spec's S1, S2, S3 and S6 scenarios.
func TestLineAmounts(t *testing.T) {
	tests := []struct {
		name      string
		price     Grosze
		qty       MilliQuantity
		rate      VATRate
		wantNet   Grosze
		wantVAT   Grosze
		wantGross Grosze
	}{
		{"S1 single 23% line", 10000, 1000, VATRate23, 10000, 2300, 12300},
		{"S2 line A 23%", 10000, 1000, VATRate23, 10000, 2300, 12300},
		{"S2 line B 8% fractional qty", 8000, 2500, VATRate8, 20000, 1600, 21600},
		{"S3 exempt", 5000, 3000, VATRateZW, 15000, 0, 15000},
		{"S6 rounding boundary 0.5", 1, 500, VATRate23, 1, 0, 1},
		{"S6 rounding boundary 0.4", 1, 400, VATRate23, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, vat, gross := LineAmounts(tt.price, tt.qty, tt.rate)
			if net != tt.wantNet || vat != tt.wantVAT || gross != tt.wantGross {
				t.Errorf("LineAmounts(%d, %d, %v) = (%d, %d, %d), want (%d, %d, %d)",
					tt.price, tt.qty, tt.rate, net, vat, gross, tt.wantNet, tt.wantVAT, tt.wantGross)
			}
			if gross != net+vat {
				t.Errorf("gross %d != net+vat %d", gross, net+vat)
			}
		})
	}
}

func TestInvoiceTotalsAdditivity(t *testing.T) {
	items := []LineItem{
		{Net: 10000, VAT: 2300, Gross: 12300},
		{Net: 20000, VAT: 1600, Gross: 21600},
	}
	subtotal, tax, total := InvoiceTotals(items)
	if subtotal != 30000 || tax != 3900 || total != 33900 {
		t.Errorf("InvoiceTotals = (%d, %d, %d), want (30000, 3900, 33900)", subtotal, tax, total)
	}
	if total != subtotal+tax {
		t.Errorf("total %d != subtotal+tax %d", total, subtotal+tax)
	}
}

func TestVATRateP12Tag(t *testing.T) {
	tests := []struct {
		rate VATRate
		want string
	}{
		{VATRate23, "23"},
		{VATRate8, "8"},
		{VATRate5, "5"},
		{VATRate0, "0 KR"},
		{VATRateZW, "zw"},
		{VATRateNP, "np I"},
	}
	for _, tt := range tests {
		if got := tt.rate.P12Tag(); got != tt.want {
			t.Errorf("P12Tag() = %q, want %q", got, tt.want)
		}
	}
}
