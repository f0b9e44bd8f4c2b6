package money

import (
	"fmt"

	"github.com/freelancehub/invoicecore/coreerrors"
)

// VATRate is the tagged union {23, 8, 5, 0} ∪ {"ZW", "NP"} from §3/§4.2.
// The DB column stores its Raw() string; readers parse it back with
// ParseVATRate. This is the generalisation of the donor's dynamic union to
// a Go type with four numeric variants plus two enum constants (§9).
type VATRate struct {
	numeric bool
	percent int
	tag     string // "ZW" or "NP" when !numeric
}

var (
	VATRate23 = VATRate{numeric: true, percent: 23}
	VATRate8  = VATRate{numeric: true, percent: 8}
	VATRate5  = VATRate{numeric: true, percent: 5}
	VATRate0  = VATRate{numeric: true, percent: 0}
	VATRateZW = VATRate{tag: "ZW"}
	VATRateNP = VATRate{tag: "NP"}
)

// ParseVATRate parses a stored or user-supplied VAT rate tag (a numeric
// string like "23" or "0", or one of "ZW"/"NP").
func ParseVATRate(op string, raw string) (VATRate, error) {
	switch raw {
	case "23":
		return VATRate23, nil
	case "8":
		return VATRate8, nil
	case "5":
		return VATRate5, nil
	case "0":
		return VATRate0, nil
	case "ZW":
		return VATRateZW, nil
	case "NP":
		return VATRateNP, nil
	default:
		return VATRate{}, coreerrors.New(coreerrors.KindValidation, op, "invalid VAT rate")
	}
}

// Raw returns the persisted textual representation.
func (r VATRate) Raw() string {
	if r.numeric {
		return fmt.Sprintf("%d", r.percent)
	}
	return r.tag
}

func (r VATRate) IsNumeric() bool { return r.numeric }
func (r VATRate) Percent() int    { return r.percent }

// IsExempt reports whether this is the "ZW" or "NP" variant, where VAT is
// always zero regardless of net amount.
func (r VATRate) IsExempt() bool { return !r.numeric }

// P12Tag returns the FA(3) P_12 line-tax-tag text for this rate (§4.6 table).
func (r VATRate) P12Tag() string {
	switch {
	case !r.numeric:
		if r.tag == "ZW" {
			return "zw"
		}
		return "np I"
	case r.percent == 0:
		return "0 KR"
	default:
		return fmt.Sprintf("%d", r.percent)
	}
}
