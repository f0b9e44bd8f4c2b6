// Package invoiceservice implements C5, the state machine that orchestrates
// C1 (money), C2 (validate), C3 (store), C4 (numbering), C6 (fa3) and C7
// (pdfrenderer) behind Create/Update/Issue/Delete. It generalises the donor's
// models/salesInvoice.go#CreateSalesInvoice single-transaction create path
// (validate -> compute -> allocate number -> insert -> commit) to this
// spec's draft/issued/cancelled state machine, and its comment-documented
// "create as Draft, then transition inside the same transaction" idea to the
// fixed DB-then-XML-then-PDF ordering of §2/§5 for Issue.
package invoiceservice

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/freelancehub/invoicecore/appctx"
	"github.com/freelancehub/invoicecore/coreerrors"
	"github.com/freelancehub/invoicecore/fa3"
	"github.com/freelancehub/invoicecore/logutil"
	"github.com/freelancehub/invoicecore/money"
	"github.com/freelancehub/invoicecore/numbering"
	"github.com/freelancehub/invoicecore/pdfrenderer"
	"github.com/freelancehub/invoicecore/store"
	"github.com/freelancehub/invoicecore/validate"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const moduleName = "invoiceservice"

// Service is constructed once per process (or per test) with a CoreContext.
type Service struct {
	Core *appctx.CoreContext
}

func New(core *appctx.CoreContext) *Service {
	return &Service{Core: core}
}

// Create writes a draft (or the requested status) invoice: validate,
// compute line amounts and totals, allocate or accept the invoice number,
// insert invoice + items, commit — all inside one transaction (§4.5).
func (s *Service) Create(ctx context.Context, input CreateInvoiceInput) (*store.Invoice, error) {
	const op = moduleName + ".Create"

	if err := validate.V.Struct(input); err != nil {
		return nil, s.logAndWrap(op, "input validation", input, coreerrors.Wrap(coreerrors.KindValidation, op, "invalid input", err))
	}

	client, err := store.FetchClient(ctx, s.Core.DB, input.ClientID)
	if err != nil {
		return nil, s.logAndWrap(op, "fetch client", input.ClientID, err)
	}

	lines, subtotal, tax, total, err := computeLines(op, input.Items)
	if err != nil {
		return nil, s.logAndWrap(op, "compute lines", input.Items, err)
	}

	status := store.StatusDraft
	if input.Status != "" {
		status = store.InvoiceStatus(input.Status)
	}

	var inv store.Invoice
	err = store.CreateInvoiceTx(ctx, s.Core.DB, func(tx *gorm.DB) error {
		number, err := allocateOrAcceptNumber(ctx, tx, input.IssueDate, input.InvoiceNumber)
		if err != nil {
			return err
		}

		inv = store.Invoice{
			InvoiceNumber:   number,
			IssueDate:       input.IssueDate,
			SaleDate:        input.SaleDate,
			ClientID:        client.ID,
			Status:          store.StatusDraft,
			PaymentMethod:   store.PaymentMethod(input.PaymentMethod),
			PaymentDeadline: input.PaymentDeadline,
			Currency:        input.Currency,
			ExchangeRate:    input.ExchangeRate,
			Notes:           input.Notes,
			SubtotalGrosze:  int64(subtotal),
			TaxGrosze:       int64(tax),
			TotalGrosze:     int64(total),
		}
		if err := store.InsertInvoice(ctx, tx, &inv); err != nil {
			return err
		}
		if err := store.ReplaceItems(ctx, tx, inv.ID, lines); err != nil {
			return err
		}

		// IMPORTANT: always insert as Draft first, then transition inside
		// the same transaction if a different status was requested — the
		// donor's models/salesInvoice.go#CreateSalesInvoice pattern,
		// generalised from Draft->Confirmed to draft->issued/cancelled.
		if status != store.StatusDraft {
			if err := tx.WithContext(ctx).Model(&store.Invoice{}).Where("id = ?", inv.ID).Update("status", status).Error; err != nil {
				return coreerrors.Wrap(coreerrors.KindInternal, op, "status transition failed", err)
			}
			inv.Status = status
		}

		return nil
	})
	if err != nil {
		return nil, s.logAndWrap(op, "transaction", input, err)
	}

	if inv.Status == store.StatusIssued {
		return s.Issue(ctx, inv.ID)
	}

	return store.FetchInvoice(ctx, s.Core.DB, inv.ID)
}

// Update reloads an existing draft, merges fields, replaces items, and
// recomputes totals inside one transaction (§4.5).
func (s *Service) Update(ctx context.Context, input UpdateInvoiceInput) (*store.Invoice, error) {
	const op = moduleName + ".Update"

	if err := validate.V.Struct(input); err != nil {
		return nil, s.logAndWrap(op, "input validation", input, coreerrors.Wrap(coreerrors.KindValidation, op, "invalid input", err))
	}

	existing, err := store.FetchInvoice(ctx, s.Core.DB, input.ID)
	if err != nil {
		return nil, s.logAndWrap(op, "fetch invoice", input.ID, err)
	}
	if existing.Status == store.StatusIssued {
		return nil, s.logAndWrap(op, "status check", input.ID, coreerrors.New(coreerrors.KindConflict, op, "cannot modify an issued invoice"))
	}

	if _, err := store.FetchClient(ctx, s.Core.DB, input.ClientID); err != nil {
		return nil, s.logAndWrap(op, "fetch client", input.ClientID, err)
	}

	lines, subtotal, tax, total, err := computeLines(op, input.Items)
	if err != nil {
		return nil, s.logAndWrap(op, "compute lines", input.Items, err)
	}

	err = store.CreateInvoiceTx(ctx, s.Core.DB, func(tx *gorm.DB) error {
		number := existing.InvoiceNumber
		if input.InvoiceNumber != "" && input.InvoiceNumber != existing.InvoiceNumber {
			accepted, err := numbering.AcceptExplicit(ctx, tx, input.InvoiceNumber)
			if err != nil {
				return err
			}
			number = accepted
		}

		existing.InvoiceNumber = number
		existing.IssueDate = input.IssueDate
		existing.SaleDate = input.SaleDate
		existing.ClientID = input.ClientID
		existing.PaymentMethod = store.PaymentMethod(input.PaymentMethod)
		existing.PaymentDeadline = input.PaymentDeadline
		existing.Currency = input.Currency
		existing.ExchangeRate = input.ExchangeRate
		existing.Notes = input.Notes
		existing.SubtotalGrosze = int64(subtotal)
		existing.TaxGrosze = int64(tax)
		existing.TotalGrosze = int64(total)

		if err := store.UpdateInvoiceRow(ctx, tx, existing); err != nil {
			return err
		}
		return store.ReplaceItems(ctx, tx, existing.ID, lines)
	})
	if err != nil {
		return nil, s.logAndWrap(op, "transaction", input, err)
	}

	return store.FetchInvoice(ctx, s.Core.DB, existing.ID)
}

// Issue transitions a draft invoice to issued and generates its artifacts.
// Calling it on an already-issued invoice is idempotent: only missing
// artifacts are regenerated (§4.5, P7).
func (s *Service) Issue(ctx context.Context, invoiceID uint) (*store.Invoice, error) {
	const op = moduleName + ".Issue"

	correlationID := uuid.NewString()
	ctx, span := s.Core.Tracer.Start(ctx, op)
	span.SetAttributes(
		attribute.String("correlation_id", correlationID),
		attribute.Int64("invoice_id", int64(invoiceID)),
	)
	defer span.End()

	inv, err := store.FetchInvoice(ctx, s.Core.DB, invoiceID)
	if err != nil {
		return nil, s.logAndWrap(op, correlationID+" fetch invoice", invoiceID, err)
	}

	if inv.Status != store.StatusIssued {
		_, txSpan := s.Core.Tracer.Start(ctx, op+".statusTransition")
		err := store.SetStatus(ctx, s.Core.DB, inv.ID, store.StatusIssued)
		txSpan.End()
		if err != nil {
			return nil, s.logAndWrap(op, correlationID+" status transition", invoiceID, err)
		}
		inv.Status = store.StatusIssued
	}

	if inv.XMLPath == "" {
		xmlCtx, xmlSpan := s.Core.Tracer.Start(ctx, op+".generateXML")
		xmlPath, err := s.generateXML(xmlCtx, inv)
		xmlSpan.End()
		if err != nil {
			return nil, s.logAndWrap(op, correlationID+" generate xml", invoiceID, err)
		}
		inv.XMLPath = xmlPath
	}

	if inv.PDFPath == "" {
		pdfCtx, pdfSpan := s.Core.Tracer.Start(ctx, op+".generatePDF")
		pdfPath, err := s.generatePDF(pdfCtx, inv)
		pdfSpan.End()
		if err != nil {
			return nil, s.logAndWrap(op, correlationID+" generate pdf", invoiceID, err)
		}
		inv.PDFPath = pdfPath
	}

	return store.FetchInvoice(ctx, s.Core.DB, invoiceID)
}

// Delete removes an invoice and cascades its items. Callers are expected to
// guard deletion of issued invoices at the boundary (§4.5).
func (s *Service) Delete(ctx context.Context, invoiceID uint) error {
	const op = moduleName + ".Delete"
	if err := store.DeleteInvoice(ctx, s.Core.DB, invoiceID); err != nil {
		return s.logAndWrap(op, "delete", invoiceID, err)
	}
	return nil
}

func (s *Service) generateXML(ctx context.Context, inv *store.Invoice) (string, error) {
	const op = moduleName + ".generateXML"

	xmlDir, err := s.Core.XMLDir()
	if err != nil {
		return "", coreerrors.Wrap(coreerrors.KindIO, op, "prepare xml directory", err)
	}
	filename, err := validate.InvoiceNumberToFilename(op, inv.InvoiceNumber, "xml", xmlDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(xmlDir, filename)

	doc, err := fa3.Build(fa3.BuildInput{
		Invoice:     *inv,
		Seller:      s.sellerInfo(),
		SystemInfo:  s.Core.Settings.SystemInfo,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}

	if err := fa3.Write(doc, path); err != nil {
		return "", coreerrors.Wrap(coreerrors.KindIO, op, "write xml file", err)
	}

	result, err := s.Core.XSDValidator.Validate(ctx, path)
	if err != nil {
		return "", coreerrors.Wrap(coreerrors.KindIO, op, "invoke xsd validator", err)
	}
	if !result.Valid {
		return "", coreerrors.WithDetails(coreerrors.KindFA3ValidationFailed, op, "generated XML failed schema validation", result.Stderr)
	}

	if err := store.SetArtifactPath(ctx, s.Core.DB, inv.ID, "xml_path", path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) generatePDF(ctx context.Context, inv *store.Invoice) (string, error) {
	const op = moduleName + ".generatePDF"

	pdfDir, err := s.Core.PDFDir()
	if err != nil {
		return "", coreerrors.Wrap(coreerrors.KindIO, op, "prepare pdf directory", err)
	}
	filename, err := validate.InvoiceNumberToFilename(op, inv.InvoiceNumber, "pdf", pdfDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(pdfDir, filename)

	seller := s.sellerInfo()
	renderer := &pdfrenderer.Renderer{
		Fonts:            s.Core.FontResolver,
		SellerName:       seller.Name,
		SellerNIP:        seller.NIP,
		SellerAddress:    seller.Street,
		SellerCity:       seller.City,
		SellerPostalCode: seller.PostalCode,
		SellerEmail:      seller.Email,
		SellerPhone:      seller.Phone,
	}

	pdfBytes, err := renderer.Render(*inv)
	if err != nil {
		return "", coreerrors.Wrap(coreerrors.KindIO, op, "render pdf", err)
	}

	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return "", coreerrors.Wrap(coreerrors.KindIO, op, "write pdf file", err)
	}

	if err := store.SetArtifactPath(ctx, s.Core.DB, inv.ID, "pdf_path", path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) sellerInfo() fa3.SellerInfo {
	settings := s.Core.Settings
	return fa3.SellerInfo{
		NIP:        settings.SellerNIP,
		Name:       settings.SellerName,
		Street:     settings.SellerAddress,
		City:       settings.SellerCity,
		PostalCode: settings.SellerPostalCode,
		Email:      settings.SellerEmail,
		Phone:      settings.SellerPhone,
	}
}

func (s *Service) logAndWrap(op, context string, data any, err error) error {
	logutil.LogError(s.Core.Logger, moduleName, op, context, data, err)
	return err
}

// computeLines validates and converts every item input through C1/C2,
// returning ready-to-persist store.InvoiceItem rows plus invoice totals.
func computeLines(op string, inputs []InvoiceItemInput) ([]store.InvoiceItem, money.Grosze, money.Grosze, money.Grosze, error) {
	lineItems := make([]money.LineItem, 0, len(inputs))
	rows := make([]store.InvoiceItem, 0, len(inputs))

	for _, in := range inputs {
		unitPrice, err := money.ParseMoney(op, in.UnitPrice)
		if err != nil {
			return nil, 0, 0, 0, err
		}
		quantity, err := money.ParseQuantity(op, in.Quantity)
		if err != nil {
			return nil, 0, 0, 0, err
		}
		rate, err := money.ParseVATRate(op, in.VATRate)
		if err != nil {
			return nil, 0, 0, 0, err
		}
		name, err := validate.TrimmedNonEmpty(op, "name", in.Name, 255)
		if err != nil {
			return nil, 0, 0, 0, err
		}
		unit, err := validate.TrimmedNonEmpty(op, "unit", in.Unit, 32)
		if err != nil {
			return nil, 0, 0, 0, err
		}

		net, vat, gross := money.LineAmounts(unitPrice, quantity, rate)
		lineItems = append(lineItems, money.LineItem{Net: net, VAT: vat, Gross: gross})
		rows = append(rows, store.InvoiceItem{
			Name:            name,
			Quantity:        money.NormaliseQuantity(quantity),
			Unit:            unit,
			UnitPriceGrosze: int64(unitPrice),
			VATRate:         rate.Raw(),
			NetGrosze:       int64(net),
			VATGrosze:       int64(vat),
			GrossGrosze:     int64(gross),
		})
	}

	subtotal, tax, total := money.InvoiceTotals(lineItems)
	return rows, subtotal, tax, total, nil
}

func allocateOrAcceptNumber(ctx context.Context, tx *gorm.DB, issueDate, explicit string) (string, error) {
	if explicit != "" {
		return numbering.AcceptExplicit(ctx, tx, explicit)
	}
	return numbering.Allocate(ctx, tx, issueDate)
}
