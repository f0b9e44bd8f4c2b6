package store

import (
	"fmt"
	"os"

	"github.com/freelancehub/invoicecore/config"
	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// Open opens the embedded SQLite file, enables foreign keys and WAL
// journaling, installs the donor's otelgorm tracing plugin, and runs
// AutoMigrate over the four models (§4.3, §10.5).
func Open(settings *config.Settings) (*gorm.DB, error) {
	if err := os.MkdirAll(settings.DataRoot, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data root: %w", err)
	}
	return openWithPath(settings.DBPath())
}

// openWithPath is the path-parametrised core of Open, split out so package
// tests can point it at a throwaway file without constructing a full
// config.Settings.
func openWithPath(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("store: enable WAL journaling: %w", err)
	}

	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("store: install otelgorm plugin: %w", err)
	}

	if err := db.AutoMigrate(&Client{}, &Invoice{}, &InvoiceItem{}, &InvoiceSequence{}); err != nil {
		return nil, fmt.Errorf("store: migrate schema: %w", err)
	}

	return db, nil
}
