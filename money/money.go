// Package money implements deterministic fixed-point arithmetic in grosze
// (1/100 of the primary currency unit), the contract C1 of the invoice core
// depends on. Amounts are plain int64; shopspring/decimal is used only at
// the text-parsing boundary to tolerate "," vs "." separators the way the
// donor pack's Decimal-typed fields do, never as the core's own arithmetic
// type — see DESIGN.md's C1 entry for why.
package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/freelancehub/invoicecore/coreerrors"
	"github.com/shopspring/decimal"
)

// Grosze is a non-negative integer amount in the minor currency unit.
type Grosze int64

// maxSafeGrosze bounds parsed amounts to 2^53 grosze. The price * quantity
// product formed in LineAmounts is not bounded separately.
const maxSafeGrosze = int64(1) << 53

var moneyPattern = regexp.MustCompile(`^\d+([.,]\d{0,2})?$`)
var quantityPattern = regexp.MustCompile(`^\d+([.,]\d{0,3})?$`)

// ParseMoney accepts a string or a shopspring/decimal.Decimal (the donor
// pack's money representation) and returns the equivalent non-negative
// integer grosze amount.
func ParseMoney(op string, input any) (Grosze, error) {
	s, err := toAmountString(op, input, moneyPattern, "amount")
	if err != nil {
		return 0, err
	}
	d, err := decimal.NewFromString(normaliseSeparator(s))
	if err != nil {
		return 0, coreerrors.New(coreerrors.KindValidation, op, "invalid format")
	}
	grosze := d.Mul(decimal.NewFromInt(100)).Round(0)
	if grosze.IsNegative() {
		return 0, coreerrors.New(coreerrors.KindValidation, op, "amount must not be negative")
	}
	v := grosze.IntPart()
	if v > maxSafeGrosze {
		return 0, coreerrors.New(coreerrors.KindValidation, op, "amount too large")
	}
	return Grosze(v), nil
}

// FormatMoney always renders a fixed two-decimal string, e.g. "123.00".
func FormatMoney(g Grosze) string {
	v := int64(g)
	whole := v / 100
	frac := v % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}

// MilliQuantity is a non-negative integer quantity in thousandths of a unit
// (up to 3 fractional digits), e.g. "2.5" h is MilliQuantity(2500).
type MilliQuantity int64

// ParseQuantity accepts a string or decimal.Decimal quantity and returns the
// equivalent milli-quantity. Quantities must be strictly positive.
func ParseQuantity(op string, input any) (MilliQuantity, error) {
	s, err := toAmountString(op, input, quantityPattern, "quantity")
	if err != nil {
		return 0, err
	}
	d, err := decimal.NewFromString(normaliseSeparator(s))
	if err != nil {
		return 0, coreerrors.New(coreerrors.KindValidation, op, "invalid format")
	}
	milli := d.Mul(decimal.NewFromInt(1000)).Round(0)
	if !milli.IsPositive() {
		return 0, coreerrors.New(coreerrors.KindValidation, op, "quantity must be > 0")
	}
	return MilliQuantity(milli.IntPart()), nil
}

// NormaliseQuantity returns the canonical decimal-string form of a quantity:
// leading zeros stripped from the integer part (one digit preserved),
// trailing zeros stripped from the fractional part.
func NormaliseQuantity(milli MilliQuantity) string {
	v := int64(milli)
	whole := v / 1000
	frac := v % 1000
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	fracStr := fmt.Sprintf("%03d", frac)
	fracStr = strings.TrimRight(fracStr, "0")
	return fmt.Sprintf("%d.%s", whole, fracStr)
}

func normaliseSeparator(s string) string {
	return strings.Replace(s, ",", ".", 1)
}

func toAmountString(op string, input any, pattern *regexp.Regexp, label string) (string, error) {
	var s string
	switch v := input.(type) {
	case string:
		s = strings.TrimSpace(v)
	case decimal.Decimal:
		s = v.String()
	case int:
		s = fmt.Sprintf("%d", v)
	case int64:
		s = fmt.Sprintf("%d", v)
	case float64:
		s = decimal.NewFromFloat(v).String()
	default:
		return "", coreerrors.New(coreerrors.KindValidation, op, fmt.Sprintf("unsupported %s type", label))
	}
	normalised := strings.Replace(s, ",", ".", 1)
	if !pattern.MatchString(normalised) {
		return "", coreerrors.New(coreerrors.KindValidation, op, "invalid format")
	}
	return s, nil
}

// roundHalfUp computes round((numerator)/denominator) using the spec's
// banker-free half-up rule on non-negative integers:
// (numerator + denominator/2) / denominator, integer division.
func roundHalfUp(numerator, denominator int64) int64 {
	return (numerator + denominator/2) / denominator
}
