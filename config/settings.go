// Package config collects process-wide settings loaded once at startup, the
// generalisation of the donor's config/featureFlags.go env-var idiom from a
// handful of boolean feature toggles to the full settings surface a
// single-tenant, single-seller invoice core needs (§10.2).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Settings is the core's process-wide configuration, loaded once at
// CoreContext construction.
type Settings struct {
	DataRoot          string
	DBFilename        string
	XSDValidatorPath  string
	FA3SchemaPath     string
	FA3CatalogPath    string
	SystemInfo        string

	SellerNIP        string
	SellerName       string
	SellerAddress    string
	SellerCity       string
	SellerPostalCode string
	SellerEmail      string
	SellerPhone      string
}

// LoadSettings reads .env (best-effort, matching the donor's
// ConnectDatabaseWithRetry init() godotenv.Load() call) then os.Getenv, with
// defaults for every field that has a sensible one.
func LoadSettings() *Settings {
	_ = godotenv.Load()

	dataRoot := getenvDefault("DATA_ROOT", "./data")
	return &Settings{
		DataRoot:         dataRoot,
		DBFilename:       getenvDefault("DB_FILENAME", "dashboard.db"),
		XSDValidatorPath: getenvDefault("XSD_VALIDATOR_PATH", "xmllint"),
		FA3SchemaPath:    getenvDefault("FA3_SCHEMA_PATH", filepath.Join("assets", "fa3", "schema.xsd")),
		FA3CatalogPath:   getenvDefault("FA3_CATALOG_PATH", filepath.Join("assets", "fa3", "catalog.xml")),
		SystemInfo:       getenvDefault("SYSTEM_INFO", "invoicecore"),

		SellerNIP:        os.Getenv("SELLER_NIP"),
		SellerName:       os.Getenv("SELLER_NAME"),
		SellerAddress:    os.Getenv("SELLER_ADDRESS"),
		SellerCity:       os.Getenv("SELLER_CITY"),
		SellerPostalCode: os.Getenv("SELLER_POSTAL_CODE"),
		SellerEmail:      os.Getenv("SELLER_EMAIL"),
		SellerPhone:      os.Getenv("SELLER_PHONE"),
	}
}

// DBPath returns the path the embedded store opens: DBFilename under
// DataRoot (relative when DataRoot is relative, as the "./data" default is).
func (s *Settings) DBPath() string {
	return filepath.Join(s.DataRoot, s.DBFilename)
}

// XMLDir and PDFDir are the two artifact output directories of §6.
func (s *Settings) XMLDir() string { return filepath.Join(s.DataRoot, "invoices", "xml") }
func (s *Settings) PDFDir() string { return filepath.Join(s.DataRoot, "invoices", "pdf") }

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
