package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/api/middleware"
	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/service"
)

const (
	defaultExportsLimit = 20
	maxExportsLimit     = 100
)

// HandleDeriveInvoice handles POST /api/invoices/derive
func HandleDeriveInvoice(invoices *service.InvoiceService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.DeriveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "order_id is required")
			return
		}
		orderType := req.OrderType
		if orderType == "" {
			orderType = domain.OrderTypeRegular
		}

		doc, err := invoices.FromOrderID(c.Request.Context(), req.OrderID, orderType)
		if err != nil {
			respondError(c, logger, err, "derive invoice")
			return
		}
		ok(c, gin.H{"invoice": doc})
	}
}

// HandleNewInvoice handles GET /api/invoices/new
func HandleNewInvoice(invoices *service.InvoiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, gin.H{"invoice": invoices.Empty(c.Request.Context())})
	}
}

// HandleEditInvoice handles POST /api/invoices/edit. The server keeps no copy
// of the invoice: the client sends it with every edit and gets the recomputed
// document back.
func HandleEditInvoice(invoices *service.InvoiceService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.EditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, fmt.Sprintf("invalid edit request: %v", err))
			return
		}

		if err := invoices.Edit(c.Request.Context(), req.Document, req.Operation); err != nil {
			respondError(c, logger, err, "edit invoice")
			return
		}
		ok(c, gin.H{
			"invoice":             req.Document,
			"discount_percentage": req.Document.DiscountPercentage(),
		})
	}
}

// HandleValidateInvoice handles POST /api/invoices/validate
func HandleValidateInvoice() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.DocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, fmt.Sprintf("invalid invoice: %v", err))
			return
		}
		violations := req.Document.Validate()
		ok(c, gin.H{"valid": len(violations) == 0, "errors": violations})
	}
}

// HandleExportInvoice handles POST /api/invoices/export and streams the PDF
func HandleExportInvoice(exports *service.ExportService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.DocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, fmt.Sprintf("invalid invoice: %v", err))
			return
		}

		admin, _ := middleware.GetAdminFromContext(c)
		res, err := exports.Export(c.Request.Context(), req.Document, admin)
		if err != nil {
			respondError(c, logger, err, "export invoice")
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
		c.Data(http.StatusOK, "application/pdf", res.PDF)
	}
}

// HandleListExports handles GET /api/invoices/exports?limit=
func HandleListExports(exports *service.ExportService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := intQuery(c, "limit", defaultExportsLimit, maxExportsLimit)
		rows, err := exports.RecentExports(c.Request.Context(), limit)
		if err != nil {
			respondError(c, logger, err, "list exports")
			return
		}
		if rows == nil {
			rows = []*domain.InvoiceExport{}
		}
		ok(c, gin.H{"exports": rows, "count": len(rows)})
	}
}
