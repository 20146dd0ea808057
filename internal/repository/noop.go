package repository

import (
	"context"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
)

type noopInvoiceExportRepository struct{}

// NewNoopRepositories is used when no database is configured: exports are not
// recorded and listings are empty.
func NewNoopRepositories() *Repositories {
	return &Repositories{
		InvoiceExport: noopInvoiceExportRepository{},
	}
}

func (noopInvoiceExportRepository) Create(context.Context, *domain.InvoiceExport) error {
	return nil
}

func (noopInvoiceExportRepository) ListRecent(context.Context, int) ([]*domain.InvoiceExport, error) {
	return []*domain.InvoiceExport{}, nil
}

func (noopInvoiceExportRepository) ListByOrderID(context.Context, int64) ([]*domain.InvoiceExport, error) {
	return []*domain.InvoiceExport{}, nil
}
