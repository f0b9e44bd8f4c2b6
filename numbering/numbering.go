// Package numbering implements C4: atomic per-(year, month) invoice number
// allocation. It generalises the donor's utils/redisHelper.go#GetSequence[T]
// shape — serialize, read-or-seed, verify uniqueness — to a pure
// in-transaction SQL upsert; a collision is returned as a CONFLICT error and
// any retry is left to the caller. §5 forbids a cross-request
// cache for this core and a single embedded store has no second writer to
// desynchronize a cache from (see SPEC_FULL.md §4.4, §10.7).
package numbering

import (
	"context"
	"fmt"
	"strings"

	"github.com/freelancehub/invoicecore/coreerrors"
	"github.com/freelancehub/invoicecore/store"
	"github.com/freelancehub/invoicecore/validate"
	"gorm.io/gorm"
)

// FormatInvoiceNumber renders the §6 human identifier: FV/YYYY/MM/NNNN, NNNN
// zero-padded to at least four digits.
func FormatInvoiceNumber(year, month, sequence int) string {
	return fmt.Sprintf("FV/%04d/%02d/%04d", year, month, sequence)
}

// Allocate bumps the (year, month) sequence for issueDate inside tx and
// returns the formatted invoice number. Callers must invoke this inside the
// same transaction that inserts the invoice row (§4.4 step 2).
func Allocate(ctx context.Context, tx *gorm.DB, issueDate string) (string, error) {
	const op = "numbering.Allocate"

	year, month, err := validate.ParseDate(issueDate)
	if err != nil {
		return "", err
	}

	var seq store.InvoiceSequence
	err = tx.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Attrs(store.InvoiceSequence{Year: year, Month: month, LastNumber: 0}).
		FirstOrCreate(&seq).Error
	if err != nil {
		return "", coreerrors.Wrap(coreerrors.KindInternal, op, "load sequence row failed", err)
	}

	if err := tx.WithContext(ctx).
		Model(&store.InvoiceSequence{}).
		Where("id = ?", seq.ID).
		Update("last_number", gorm.Expr("last_number + 1")).Error; err != nil {
		return "", coreerrors.Wrap(coreerrors.KindInternal, op, "increment sequence failed", err)
	}

	if err := tx.WithContext(ctx).First(&seq, seq.ID).Error; err != nil {
		return "", coreerrors.Wrap(coreerrors.KindInternal, op, "reload sequence failed", err)
	}

	number := FormatInvoiceNumber(year, month, seq.LastNumber)

	taken, err := numberTaken(ctx, tx, number, 0)
	if err != nil {
		return "", err
	}
	if taken {
		return "", coreerrors.New(coreerrors.KindConflict, op, "allocated number already exists, retry")
	}

	return number, nil
}

// AcceptExplicit validates a caller-supplied invoice number per §4.4's
// "alternative path": trim, reject empty, confirm uniqueness. The sequence
// counter is not touched.
func AcceptExplicit(ctx context.Context, tx *gorm.DB, raw string) (string, error) {
	const op = "numbering.AcceptExplicit"

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", coreerrors.New(coreerrors.KindValidation, op, "invoice number must not be empty")
	}

	taken, err := numberTaken(ctx, tx, trimmed, 0)
	if err != nil {
		return "", err
	}
	if taken {
		return "", coreerrors.New(coreerrors.KindConflict, op, "invoice number already in use")
	}

	return trimmed, nil
}

func numberTaken(ctx context.Context, tx *gorm.DB, number string, exceptID uint) (bool, error) {
	q := tx.WithContext(ctx).Model(&store.Invoice{}).Where("invoice_number = ?", number)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, coreerrors.Wrap(coreerrors.KindInternal, "numbering.numberTaken", "uniqueness check failed", err)
	}
	return count > 0, nil
}
