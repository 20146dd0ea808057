package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		InvoiceExport: NewInvoiceExportRepository(db, logger),
	}
}
