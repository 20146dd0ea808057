package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/invoice"
	"github.com/signal-over-noise/shopify-invoice-app/internal/repository"
)

// Renderer turns a validated invoice into a printable document
type Renderer interface {
	Render(doc *invoice.Document) ([]byte, error)
}

// ExportResult is a rendered invoice ready for download
type ExportResult struct {
	Filename string
	PDF      []byte
}

type ExportService struct {
	invoices *InvoiceService
	renderer Renderer
	repos    *repository.Repositories
	now      func() time.Time
	logger   *zap.Logger
}

// NewExportService creates the export pipeline: validate, fetch images, render, record
func NewExportService(invoices *InvoiceService, renderer Renderer, repos *repository.Repositories, logger *zap.Logger) *ExportService {
	return &ExportService{
		invoices: invoices,
		renderer: renderer,
		repos:    repos,
		now:      time.Now,
		logger:   logger.Named("export"),
	}
}

// Export validates doc and renders it as sent; totals are not recomputed, so a
// derived invoice keeps the upstream subtotal. Every violation is reported at
// once as an *errors.ErrValidation. A failure to record the export is logged only.
func (s *ExportService) Export(ctx context.Context, doc *invoice.Document, exportedBy string) (*ExportResult, error) {
	if err := doc.ValidationError(); err != nil {
		return nil, err
	}

	s.invoices.PrepareImages(ctx, doc)

	pdf, err := s.renderer.Render(doc)
	if err != nil {
		s.logger.Error("Failed to render invoice", zap.String("invoice_number", doc.InvoiceNumber), zap.Error(err))
		return nil, fmt.Errorf("render invoice: %w", err)
	}

	now := s.now()
	result := &ExportResult{Filename: doc.Filename(now), PDF: pdf}

	record := &domain.InvoiceExport{
		InvoiceNumber: doc.InvoiceNumber,
		OrderID:       doc.OrderID,
		CustomerName:  doc.Customer.Name,
		CustomerEmail: doc.Customer.Email,
		LineItemCount: len(doc.LineItems),
		Total:         doc.Total,
		Currency:      doc.Currency,
		Filename:      result.Filename,
		ExportedBy:    exportedBy,
		CreatedAt:     now,
	}
	if doc.OrderType.IsValid() {
		t := doc.OrderType
		record.OrderType = &t
	}
	if err := s.repos.InvoiceExport.Create(ctx, record); err != nil {
		s.logger.Warn("Failed to record invoice export", zap.String("invoice_number", doc.InvoiceNumber), zap.Error(err))
	}

	s.logger.Info("Invoice exported",
		zap.String("invoice_number", doc.InvoiceNumber),
		zap.String("filename", result.Filename),
		zap.Int("bytes", len(pdf)),
		zap.String("exported_by", exportedBy),
	)
	return result, nil
}

// RecentExports lists the latest recorded exports
func (s *ExportService) RecentExports(ctx context.Context, limit int) ([]*domain.InvoiceExport, error) {
	return s.repos.InvoiceExport.ListRecent(ctx, limit)
}
