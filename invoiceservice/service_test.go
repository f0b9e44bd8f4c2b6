package invoiceservice

import (
	"context"
	"os"
	"testing"

	"github.com/freelancehub/invoicecore/appctx"
	"github.com/freelancehub/invoicecore/config"
	"github.com/freelancehub/invoicecore/coreerrors"
	"github.com/freelancehub/invoicecore/logutil"
	"github.com/freelancehub/invoicecore/store"
	"github.com/freelancehub/invoicecore/xsdvalidate"
	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

type coreFontResolver struct{}

func (coreFontResolver) Resolve(pdf *fpdf.Fpdf) (string, error) {
	return "Helvetica", nil
}

func newTestService(t *testing.T) (*Service, *store.Client) {
	t.Helper()
	dir := t.TempDir()
	settings := &config.Settings{
		DataRoot:   dir,
		DBFilename: "test.db",
		SystemInfo: "invoicecore-test",
		SellerNIP:  "9876543210",
		SellerName: "Seller Sp. z o.o.",
		SellerCity: "Warszawa",
	}
	db, err := store.Open(settings)
	require.NoError(t, err)

	core := appctx.New(db, logutil.NewLogger(), settings, coreFontResolver{}, &xsdvalidate.FakeValidator{})
	svc := New(core)

	client := &store.Client{Name: "Buyer Sp. z o.o.", NIP: "1234563218"}
	require.NoError(t, store.CreateClient(context.Background(), db, client))
	return svc, client
}

func basicCreateInput(clientID uint) CreateInvoiceInput {
	return CreateInvoiceInput{
		IssueDate:     "2026-01-15",
		SaleDate:      "2026-01-15",
		ClientID:      clientID,
		PaymentMethod: "cash",
		Currency:      "PLN",
		Items: []InvoiceItemInput{
			{Name: "Usluga A", Quantity: "1", Unit: "szt", UnitPrice: "100", VATRate: "23"},
		},
	}
}

func TestCreateDraftInvoice(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)
	require.Equal(t, store.StatusDraft, inv.Status)
	require.Equal(t, int64(10000), inv.SubtotalGrosze)
	require.Equal(t, int64(2300), inv.TaxGrosze)
	require.Equal(t, int64(12300), inv.TotalGrosze)
	require.Equal(t, "FV/2026/01/0001", inv.InvoiceNumber)
}

// TestCreateMonthlySequence covers S4.
func TestCreateMonthlySequence(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)
	second, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)

	thirdInput := basicCreateInput(client.ID)
	thirdInput.IssueDate = "2026-02-01"
	thirdInput.SaleDate = "2026-02-01"
	third, err := svc.Create(ctx, thirdInput)
	require.NoError(t, err)

	require.Equal(t, "FV/2026/01/0001", first.InvoiceNumber)
	require.Equal(t, "FV/2026/01/0002", second.InvoiceNumber)
	require.Equal(t, "FV/2026/02/0001", third.InvoiceNumber)
}

// TestCreateExplicitNumberCollision covers S5.
func TestCreateExplicitNumberCollision(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	input := basicCreateInput(client.ID)
	input.InvoiceNumber = "FV/2026/01/0001"
	_, err := svc.Create(ctx, input)
	require.NoError(t, err)

	dup := basicCreateInput(client.ID)
	dup.InvoiceNumber = "FV/2026/01/0001"
	_, err = svc.Create(ctx, dup)
	require.True(t, coreerrors.OfKind(err, coreerrors.KindConflict), "got %v", err)

	allocated, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)
	require.Equal(t, "FV/2026/01/0001", allocated.InvoiceNumber,
		"sequence counter should be unaffected by the failed explicit override")
}

// TestIssueIdempotent covers P7: calling Issue twice never changes the
// invoice number and ensures both artifact paths exist.
func TestIssueIdempotent(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)

	first, err := svc.Issue(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, store.StatusIssued, first.Status)
	require.NotEmpty(t, first.XMLPath)
	require.NotEmpty(t, first.PDFPath)

	_, err = os.Stat(first.XMLPath)
	require.NoError(t, err)
	_, err = os.Stat(first.PDFPath)
	require.NoError(t, err)

	second, err := svc.Issue(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	require.Equal(t, first.XMLPath, second.XMLPath)
	require.Equal(t, first.PDFPath, second.PDFPath)
}

// TestUpdateRejectsIssuedInvoice covers P8.
func TestUpdateRejectsIssuedInvoice(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)
	_, err = svc.Issue(ctx, created.ID)
	require.NoError(t, err)

	update := UpdateInvoiceInput{
		ID:            created.ID,
		IssueDate:     created.IssueDate,
		SaleDate:      created.SaleDate,
		ClientID:      client.ID,
		PaymentMethod: "cash",
		Currency:      "PLN",
		InvoiceNumber: "FV/2026/01/9999",
		Items: []InvoiceItemInput{
			{Name: "Usluga A", Quantity: "1", Unit: "szt", UnitPrice: "100", VATRate: "23"},
		},
	}
	_, err = svc.Update(ctx, update)
	require.True(t, coreerrors.OfKind(err, coreerrors.KindConflict), "got %v", err)
}

func TestUpdateDraftRecomputesTotals(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)

	update := UpdateInvoiceInput{
		ID:            created.ID,
		IssueDate:     created.IssueDate,
		SaleDate:      created.SaleDate,
		ClientID:      client.ID,
		PaymentMethod: "cash",
		Currency:      "PLN",
		Items: []InvoiceItemInput{
			{Name: "Usluga B", Quantity: "2", Unit: "h", UnitPrice: "80", VATRate: "8"},
		},
	}
	updated, err := svc.Update(ctx, update)
	require.NoError(t, err)
	require.Equal(t, int64(16000), updated.SubtotalGrosze)
	require.Equal(t, int64(1280), updated.TaxGrosze)
	require.Equal(t, int64(17280), updated.TotalGrosze)
}

func TestDeleteInvoice(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = store.FetchInvoice(ctx, svc.Core.DB, created.ID)
	require.True(t, coreerrors.OfKind(err, coreerrors.KindNotFound), "got %v", err)
}

func TestIssueFA3ValidationFailurePreservesIssuedStatus(t *testing.T) {
	svc, client := newTestService(t)
	svc.Core.XSDValidator = &xsdvalidate.FakeValidator{
		ValidResult: &xsdvalidate.Result{Valid: false, Stderr: "element P_2 not allowed"},
	}
	ctx := context.Background()

	created, err := svc.Create(ctx, basicCreateInput(client.ID))
	require.NoError(t, err)

	_, err = svc.Issue(ctx, created.ID)
	require.True(t, coreerrors.OfKind(err, coreerrors.KindFA3ValidationFailed), "got %v", err)

	// §4.5/§7: the DB transition to issued already committed even though
	// the artifact step failed; xml_path stays unset for a future retry.
	reloaded, err := store.FetchInvoice(ctx, svc.Core.DB, created.ID)
	require.NoError(t, err)
	require.Equal(t, store.StatusIssued, reloaded.Status)
	require.Empty(t, reloaded.XMLPath)
}
