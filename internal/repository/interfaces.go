package repository

import (
	"context"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
)

// InvoiceExportRepository records exported invoices. Only the audit row is
// kept; the document itself stays with the client.
type InvoiceExportRepository interface {
	Create(ctx context.Context, export *domain.InvoiceExport) error
	ListRecent(ctx context.Context, limit int) ([]*domain.InvoiceExport, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]*domain.InvoiceExport, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	InvoiceExport InvoiceExportRepository
}
