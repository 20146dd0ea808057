package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/invoice"
	"github.com/signal-over-noise/shopify-invoice-app/internal/repository"
	apperrors "github.com/signal-over-noise/shopify-invoice-app/pkg/errors"
)

type stubRenderer struct {
	rendered *invoice.Document
	err      error
}

func (r *stubRenderer) Render(doc *invoice.Document) ([]byte, error) {
	r.rendered = doc
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.3"), nil
}

type memoryExports struct {
	rows []*domain.InvoiceExport
	err  error
}

func (m *memoryExports) Create(_ context.Context, e *domain.InvoiceExport) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, e)
	return nil
}

func (m *memoryExports) ListRecent(context.Context, int) ([]*domain.InvoiceExport, error) {
	return m.rows, nil
}

func (m *memoryExports) ListByOrderID(context.Context, int64) ([]*domain.InvoiceExport, error) {
	return m.rows, nil
}

func newTestExportService(f *fakeClient, r Renderer, exports repository.InvoiceExportRepository) *ExportService {
	s := NewExportService(newTestInvoiceService(f), r, &repository.Repositories{InvoiceExport: exports}, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 3, 17, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestExport(t *testing.T) {
	f := newFakeClient()
	f.images["https://cdn/a.png"] = []byte("img")
	renderer := &stubRenderer{}
	exports := &memoryExports{}

	doc := sampleInvoice()
	doc.OrderID = ptr(int64(42))
	doc.OrderType = domain.OrderTypeRegular
	doc.LineItems[0].ImageURL = "https://cdn/a.png"

	res, err := newTestExportService(f, renderer, exports).Export(context.Background(), doc, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Invoice_INV_1_2024-03-17.pdf", res.Filename)
	assert.Equal(t, []byte("%PDF-1.3"), res.PDF)
	require.NotNil(t, renderer.rendered.LineItems[0].Image)

	require.Len(t, exports.rows, 1)
	row := exports.rows[0]
	assert.Equal(t, "INV-1", row.InvoiceNumber)
	assert.EqualValues(t, 42, *row.OrderID)
	assert.Equal(t, domain.OrderTypeRegular, *row.OrderType)
	assert.Equal(t, "admin", row.ExportedBy)
	assert.Equal(t, 1, row.LineItemCount)
}

func TestExport_BlocksInvalidInvoice(t *testing.T) {
	renderer := &stubRenderer{}
	exports := &memoryExports{}
	svc := newTestExportService(newFakeClient(), renderer, exports)

	doc := sampleInvoice()
	doc.LineItems = nil
	doc.Customer.Email = ""

	_, err := svc.Export(context.Background(), doc, "admin")
	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{invoice.MsgCustomerEmailRequired, invoice.MsgLineItemRequired}, verr.Violations)
	assert.Nil(t, renderer.rendered)
	assert.Empty(t, exports.rows)

	doc.Customer.Email = "ada@example.com"
	doc.AddLineItem()
	require.NoError(t, doc.UpdateLineItem(0, invoice.FieldTitle, "Lamp"))
	_, err = svc.Export(context.Background(), doc, "admin")
	assert.NoError(t, err)
}

func TestExport_RecordFailureIsNotFatal(t *testing.T) {
	exports := &memoryExports{err: errors.New("db down")}
	_, err := newTestExportService(newFakeClient(), &stubRenderer{}, exports).Export(context.Background(), sampleInvoice(), "admin")
	assert.NoError(t, err)
}

func TestExport_RenderFailure(t *testing.T) {
	exports := &memoryExports{}
	_, err := newTestExportService(newFakeClient(), &stubRenderer{err: errors.New("boom")}, exports).Export(context.Background(), sampleInvoice(), "admin")
	assert.Error(t, err)
	assert.Empty(t, exports.rows)
}

func sampleInvoice() *invoice.Document {
	doc := &invoice.Document{
		InvoiceNumber: "INV-1",
		InvoiceDate:   "2024-03-17",
		Currency:      "GBP",
		Customer:      invoice.Customer{Name: "Ada Lovelace", Email: "ada@example.com"},
		Company:       DefaultCompany,
		LineItems: []invoice.LineItem{
			{ID: "1", Title: "Lamp", Quantity: 1, Price: money("10").Decimal},
		},
	}
	doc.Recompute()
	return doc
}
