// Package appctx holds CoreContext, the single long-lived object every
// service in this module takes as its first constructor argument (SPEC_FULL.md
// §10.1). It replaces the donor's package-level config.GetDB()/config.GetLogger()
// singletons and its per-request ContextKey tenant bag with one explicit,
// constructible-per-test struct.
package appctx

import (
	"os"

	"github.com/freelancehub/invoicecore/config"
	"github.com/freelancehub/invoicecore/pdfrenderer"
	"github.com/freelancehub/invoicecore/xsdvalidate"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// CoreContext is created once at process start (or once per test) and
// threaded explicitly into every C3-C7 component.
type CoreContext struct {
	DB       *gorm.DB
	Logger   *logrus.Logger
	Settings *config.Settings

	FontResolver pdfrenderer.FontResolver
	XSDValidator xsdvalidate.Validator

	Tracer trace.Tracer
}

// New wires DB, Logger, Settings and the two capabilities into a CoreContext,
// deriving the OTel tracer the way the donor derives its otelgorm-backed
// spans (a named tracer off the global provider).
func New(db *gorm.DB, logger *logrus.Logger, settings *config.Settings, fonts pdfrenderer.FontResolver, validator xsdvalidate.Validator) *CoreContext {
	return &CoreContext{
		DB:           db,
		Logger:       logger,
		Settings:     settings,
		FontResolver: fonts,
		XSDValidator: validator,
		Tracer:       otel.Tracer("invoicecore"),
	}
}

// XMLDir and PDFDir ensure and return the two artifact output directories
// under the data root (§6).
func (c *CoreContext) XMLDir() (string, error) {
	dir := c.Settings.XMLDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func (c *CoreContext) PDFDir() (string, error) {
	dir := c.Settings.PDFDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
