package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
)

const invoiceExportsTable = "invoice_exports"

var invoiceExportColumns = []string{
	"id", "invoice_number", "order_id", "order_type", "customer_name", "customer_email",
	"line_item_count", "total", "currency", "filename", "exported_by", "created_at",
}

type invoiceExportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceExportRepository creates a new invoice export repository
func NewInvoiceExportRepository(db *sql.DB, logger *zap.Logger) *invoiceExportRepository {
	return &invoiceExportRepository{
		db:     db,
		logger: logger,
	}
}

func (r *invoiceExportRepository) Create(ctx context.Context, export *domain.InvoiceExport) error {
	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}
	if export.CreatedAt.IsZero() {
		export.CreatedAt = time.Now()
	}

	query, args, err := insertExportQuery(export)
	if err != nil {
		return fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to create invoice export", zap.String("invoice_number", export.InvoiceNumber), zap.Error(err))
		return err
	}
	return nil
}

func (r *invoiceExportRepository) ListRecent(ctx context.Context, limit int) ([]*domain.InvoiceExport, error) {
	if limit <= 0 {
		limit = 50
	}
	query, args, err := selectExports().Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("couldn't build an SQL query: %w", err)
	}
	return r.query(ctx, query, args...)
}

func (r *invoiceExportRepository) ListByOrderID(ctx context.Context, orderID int64) ([]*domain.InvoiceExport, error) {
	query, args, err := selectExports().Where(squirrel.Eq{"order_id": orderID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("couldn't build an SQL query: %w", err)
	}
	return r.query(ctx, query, args...)
}

func (r *invoiceExportRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.InvoiceExport, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list invoice exports", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	exports := []*domain.InvoiceExport{}
	for rows.Next() {
		var (
			e         domain.InvoiceExport
			orderID   sql.NullInt64
			orderType sql.NullString
		)
		err := rows.Scan(
			&e.ID,
			&e.InvoiceNumber,
			&orderID,
			&orderType,
			&e.CustomerName,
			&e.CustomerEmail,
			&e.LineItemCount,
			&e.Total,
			&e.Currency,
			&e.Filename,
			&e.ExportedBy,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if orderID.Valid {
			id := orderID.Int64
			e.OrderID = &id
		}
		if orderType.Valid {
			t := domain.OrderType(orderType.String)
			e.OrderType = &t
		}
		exports = append(exports, &e)
	}

	return exports, rows.Err()
}

func insertExportQuery(e *domain.InvoiceExport) (string, []interface{}, error) {
	var orderType interface{}
	if e.OrderType != nil {
		orderType = string(*e.OrderType)
	}
	var orderID interface{}
	if e.OrderID != nil {
		orderID = *e.OrderID
	}

	return squirrel.
		Insert(invoiceExportsTable).
		Columns(invoiceExportColumns...).
		Values(
			e.ID, e.InvoiceNumber, orderID, orderType, e.CustomerName, e.CustomerEmail,
			e.LineItemCount, e.Total, e.Currency, e.Filename, e.ExportedBy, e.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func selectExports() squirrel.SelectBuilder {
	return squirrel.
		Select(invoiceExportColumns...).
		From(invoiceExportsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
}
