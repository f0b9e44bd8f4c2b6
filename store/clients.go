package store

import (
	"context"
	"errors"

	"github.com/freelancehub/invoicecore/coreerrors"
	"gorm.io/gorm"
)

// FetchClient narrows the donor's utils/modelHelper.go#FetchModel[T] (which
// scoped every lookup by business_id) to this single-tenant store's plain
// primary-key lookup.
func FetchClient(ctx context.Context, db *gorm.DB, id uint) (*Client, error) {
	var c Client
	if err := db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coreerrors.New(coreerrors.KindNotFound, "store.FetchClient", "client not found")
		}
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "store.FetchClient", "query failed", err)
	}
	return &c, nil
}

// ListClients returns every client ordered by name, the single-tenant
// equivalent of the donor's paginated, business-scoped list queries.
func ListClients(ctx context.Context, db *gorm.DB) ([]Client, error) {
	var clients []Client
	if err := db.WithContext(ctx).Order("name").Find(&clients).Error; err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "store.ListClients", "query failed", err)
	}
	return clients, nil
}

// CreateClient inserts a new client, translating a unique-NIP violation into
// a CONFLICT error the way the donor's ValidateUnique pre-check does, but as
// a single round trip instead of a separate COUNT query first.
func CreateClient(ctx context.Context, db *gorm.DB, c *Client) error {
	if err := nipTaken(ctx, db, c.NIP, 0); err != nil {
		return err
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.CreateClient", "insert failed", err)
	}
	return nil
}

// UpdateClient merges fields onto the existing row.
func UpdateClient(ctx context.Context, db *gorm.DB, c *Client) error {
	if err := nipTaken(ctx, db, c.NIP, c.ID); err != nil {
		return err
	}
	if err := db.WithContext(ctx).Save(c).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.UpdateClient", "update failed", err)
	}
	return nil
}

// DeleteClient rejects deletion while any invoice still references the
// client, the restrict-on-delete invariant of §3.
func DeleteClient(ctx context.Context, db *gorm.DB, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&Invoice{}).Where("client_id = ?", id).Count(&count).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.DeleteClient", "reference check failed", err)
	}
	if count > 0 {
		return coreerrors.New(coreerrors.KindReferenceInUse, "store.DeleteClient", "client has existing invoices")
	}
	if err := db.WithContext(ctx).Delete(&Client{}, id).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.DeleteClient", "delete failed", err)
	}
	return nil
}

func nipTaken(ctx context.Context, db *gorm.DB, nip string, exceptID uint) error {
	q := db.WithContext(ctx).Model(&Client{}).Where("nip = ?", nip)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return coreerrors.Wrap(coreerrors.KindInternal, "store.nipTaken", "uniqueness check failed", err)
	}
	if count > 0 {
		return coreerrors.New(coreerrors.KindConflict, "store.nipTaken", "NIP already registered to another client")
	}
	return nil
}
