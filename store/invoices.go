package store

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/freelancehub/invoicecore/coreerrors"
	"gorm.io/gorm"
)

// FetchInvoice preloads the client and items, the single-tenant narrowing of
// the donor's FetchModel[T](ctx, businessId, id, associations...).
func FetchInvoice(ctx context.Context, db *gorm.DB, id uint) (*Invoice, error) {
	var inv Invoice
	err := db.WithContext(ctx).Preload("Client").Preload("Items").First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coreerrors.New(coreerrors.KindNotFound, "store.FetchInvoice", "invoice not found")
		}
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "store.FetchInvoice", "query failed", err)
	}
	return &inv, nil
}

// ListInvoices returns every invoice ordered by issue date descending.
func ListInvoices(ctx context.Context, db *gorm.DB) ([]Invoice, error) {
	var invoices []Invoice
	if err := db.WithContext(ctx).Preload("Client").Order("issue_date desc, id desc").Find(&invoices).Error; err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "store.ListInvoices", "query failed", err)
	}
	return invoices, nil
}

// invoiceNumberTaken mirrors the donor's ValidateUnique[T] pre-check ahead
// of the insert, guarding §3's invoice_number uniqueness invariant.
func invoiceNumberTaken(ctx context.Context, tx *gorm.DB, number string, exceptID uint) (bool, error) {
	q := tx.WithContext(ctx).Model(&Invoice{}).Where("invoice_number = ?", number)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, coreerrors.Wrap(coreerrors.KindInternal, "store.invoiceNumberTaken", "uniqueness check failed", err)
	}
	return count > 0, nil
}

// CreateInvoiceTx runs fn inside a single serialisable transaction using the
// donor's CreateSalesInvoice double-defer idiom: a panic or an early return
// before Commit always rolls back, because Rollback after Commit is a no-op
// in GORM.
func CreateInvoiceTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.CreateInvoiceTx", "begin transaction failed", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.CreateInvoiceTx", "commit failed", err)
	}
	return nil
}

// InsertInvoice inserts the invoice row and its items inside tx, after
// confirming invoice_number uniqueness.
func InsertInvoice(ctx context.Context, tx *gorm.DB, inv *Invoice) error {
	taken, err := invoiceNumberTaken(ctx, tx, inv.InvoiceNumber, 0)
	if err != nil {
		return err
	}
	if taken {
		return coreerrors.New(coreerrors.KindConflict, "store.InsertInvoice", "invoice number already in use")
	}
	if err := tx.WithContext(ctx).Create(inv).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.InsertInvoice", "insert failed", err)
	}
	return nil
}

// ReplaceItems deletes every existing item for invoiceID and inserts items,
// the §4.5 "Update deletes and re-inserts all items in the same transaction"
// rule.
func ReplaceItems(ctx context.Context, tx *gorm.DB, invoiceID uint, items []InvoiceItem) error {
	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&InvoiceItem{}).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.ReplaceItems", "delete existing items failed", err)
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			return coreerrors.Wrap(coreerrors.KindInternal, "store.ReplaceItems", "insert items failed", err)
		}
	}
	return nil
}

// UpdateInvoiceRow saves the invoice's mutable fields (totals, status,
// number, artifact paths) inside tx.
func UpdateInvoiceRow(ctx context.Context, tx *gorm.DB, inv *Invoice) error {
	if inv.InvoiceNumber != "" {
		taken, err := invoiceNumberTaken(ctx, tx, inv.InvoiceNumber, inv.ID)
		if err != nil {
			return err
		}
		if taken {
			return coreerrors.New(coreerrors.KindConflict, "store.UpdateInvoiceRow", "invoice number already in use")
		}
	}
	if err := tx.WithContext(ctx).Save(inv).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.UpdateInvoiceRow", "update failed", err)
	}
	return nil
}

// SetArtifactPath persists a single artifact path (xml_path or pdf_path)
// after a successful write+validate step, per §4.5's "Each successful
// artifact step persists its absolute path back to the invoice row."
func SetArtifactPath(ctx context.Context, db *gorm.DB, invoiceID uint, column string, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindIO, "store.SetArtifactPath", "resolve absolute path", err)
	}
	if err := db.WithContext(ctx).Model(&Invoice{}).Where("id = ?", invoiceID).Update(column, abs).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.SetArtifactPath", "update failed", err)
	}
	return nil
}

// SetStatus persists a status transition (draft -> issued) independently of
// the artifact columns, so the commit in §4.5/§5 ("DB commit to issued
// happens before any file is written") can land on its own.
func SetStatus(ctx context.Context, db *gorm.DB, invoiceID uint, status InvoiceStatus) error {
	if err := db.WithContext(ctx).Model(&Invoice{}).Where("id = ?", invoiceID).Update("status", status).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.SetStatus", "update failed", err)
	}
	return nil
}

// DeleteInvoice removes the row; InvoiceItem's CASCADE foreign key
// constraint removes its items.
func DeleteInvoice(ctx context.Context, db *gorm.DB, id uint) error {
	if err := db.WithContext(ctx).Delete(&Invoice{}, id).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.DeleteInvoice", "delete failed", err)
	}
	return nil
}
