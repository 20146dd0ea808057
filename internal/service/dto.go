package service

import (
	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/invoice"
)

// DeriveRequest asks for an invoice built from an existing order
type DeriveRequest struct {
	OrderID   int64            `json:"order_id" binding:"required"`
	OrderType domain.OrderType `json:"order_type"`
}

// EditRequest carries the client's copy of the invoice and one edit to apply
type EditRequest struct {
	Document  *invoice.Document `json:"document" binding:"required"`
	Operation invoice.Operation `json:"operation"`
}

// DocumentRequest wraps a whole invoice for validate and export
type DocumentRequest struct {
	Document *invoice.Document `json:"document" binding:"required"`
}

// LoginRequest is the admin credential pair
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
