package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceExport is the audit row written when a PDF is exported. The invoice
// document itself is never stored.
type InvoiceExport struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrderID       *int64          `json:"order_id,omitempty"`
	OrderType     *OrderType      `json:"order_type,omitempty"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	LineItemCount int             `json:"line_item_count"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Filename      string          `json:"filename"`
	ExportedBy    string          `json:"exported_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
