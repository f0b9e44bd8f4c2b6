// Package validate implements C2: format and normalisation rules for NIPs,
// dates, enums, and free text, plus the filename-safety transform of §6.
// Struct-tag validation of service-facing DTOs is registered on a single
// go-playground/validator instance here, the same library the donor pack
// uses throughout its *_controller/model input structs.
package validate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/freelancehub/invoicecore/coreerrors"
	validator "github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// V is the shared validator instance with this package's custom tags
// registered, the idiomatic go-playground/validator construction-once
// pattern.
var V = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nip", func(fl validator.FieldLevel) bool {
		_, err := NormaliseNIP(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("yyyymmdd", func(fl validator.FieldLevel) bool {
		_, _, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("vatrate", func(fl validator.FieldLevel) bool {
		return IsValidVATRateTag(fl.Field().String())
	})
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return IsValidPaymentMethod(fl.Field().String())
	})
	_ = v.RegisterValidation("invoicestatus", func(fl validator.FieldLevel) bool {
		return IsValidInvoiceStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		return IsValidCurrency(fl.Field().String())
	})
	return v
}

// NormaliseNIP strips every non-digit and requires exactly 10 digits
// remain. Checksum verification is intentionally not performed — see
// DESIGN.md open-question #3.
func NormaliseNIP(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 10 {
		return "", coreerrors.New(coreerrors.KindValidation, "validate.NormaliseNIP", "NIP must contain exactly 10 digits")
	}
	return digits, nil
}

var datePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ParseDate validates the strict YYYY-MM-DD shape and returns the
// (year, month) pair needed by the numbering authority (§4.2, §4.4).
func ParseDate(raw string) (year int, month int, err error) {
	m := datePattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, coreerrors.New(coreerrors.KindValidation, "validate.ParseDate", "date must match YYYY-MM-DD")
	}
	t, parseErr := time.Parse("2006-01-02", raw)
	if parseErr != nil {
		return 0, 0, coreerrors.New(coreerrors.KindValidation, "validate.ParseDate", "date must match YYYY-MM-DD")
	}
	return t.Year(), int(t.Month()), nil
}

func IsValidVATRateTag(raw string) bool {
	switch raw {
	case "23", "8", "5", "0", "ZW", "NP":
		return true
	default:
		return false
	}
}

func IsValidPaymentMethod(raw string) bool {
	switch raw {
	case "cash", "bank_transfer", "card", "other":
		return true
	default:
		return false
	}
}

func IsValidInvoiceStatus(raw string) bool {
	switch raw {
	case "draft", "issued", "cancelled":
		return true
	default:
		return false
	}
}

// IsValidCurrency enforces §4.2: length 3-8, no whitespace.
func IsValidCurrency(raw string) bool {
	if len(raw) < 3 || len(raw) > 8 {
		return false
	}
	return !strings.ContainsAny(raw, " \t\n\r")
}

// IsValidEmail mirrors the donor's utils/helper.go#IsValidEmail regex shape.
func IsValidEmail(raw string) bool {
	return emailPattern.MatchString(raw)
}

// TrimmedNonEmpty trims free text and rejects empty/over-length results,
// per §4.2's client-name/item-name/unit/notes rules.
func TrimmedNonEmpty(op, field, raw string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", coreerrors.Validation(op, coreerrors.FieldIssue{Field: field, Message: field + " must not be empty"})
	}
	if len(trimmed) > maxLen {
		return "", coreerrors.Validation(op, coreerrors.FieldIssue{Field: field, Message: fmt.Sprintf("%s exceeds maximum length of %d", field, maxLen)})
	}
	return trimmed, nil
}

var filenameUnsafe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
var filenameDashRun = regexp.MustCompile(`-+`)

// InvoiceNumberToFilename implements the §6 transform and its safety
// checks, resolving the candidate filename against baseDir to guard
// against traversal.
func InvoiceNumberToFilename(op, invoiceNumber, ext, baseDir string) (string, error) {
	replaced := strings.NewReplacer("/", "-", "\\", "-").Replace(invoiceNumber)
	replaced = filenameUnsafe.ReplaceAllString(replaced, "-")
	replaced = filenameDashRun.ReplaceAllString(replaced, "-")
	replaced = strings.Trim(replaced, "._-")

	if replaced == "" {
		return "", coreerrors.New(coreerrors.KindValidation, op, "INVALID_FILENAME")
	}

	filename := replaced + "." + ext
	if len(filename) > 255 {
		return "", coreerrors.New(coreerrors.KindValidation, op, "INVALID_FILENAME")
	}
	if filepath.IsAbs(filename) || strings.Contains(filename, "..") {
		return "", coreerrors.New(coreerrors.KindValidation, op, "INVALID_FILENAME")
	}

	full := filepath.Join(baseDir, filename)
	cleanBase := filepath.Clean(baseDir)
	cleanFull := filepath.Clean(full)
	if cleanFull != cleanBase && !strings.HasPrefix(cleanFull, cleanBase+string(filepath.Separator)) {
		return "", coreerrors.New(coreerrors.KindValidation, op, "INVALID_FILENAME")
	}

	return filename, nil
}
