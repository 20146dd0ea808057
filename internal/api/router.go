package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/api/handlers"
	"github.com/signal-over-noise/shopify-invoice-app/internal/api/middleware"
	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/service"
)

// Services is everything the HTTP layer calls into
type Services struct {
	Client   service.CommerceClient
	Orders   *service.OrderAggregator
	Invoices *service.InvoiceService
	Exports  *service.ExportService
	Auth     *middleware.Authenticator
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svc *Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", handlers.HandleLogin(cfg, svc.Auth, logger))
		auth.POST("/logout", handlers.HandleLogout(cfg))
		auth.GET("/me", handlers.HandleMe(svc.Auth))
	}

	store := api.Group("/shopify")
	store.Use(svc.Auth.RequireAdmin())
	{
		store.GET("/test", handlers.HandleTestConnection(svc.Client, logger))
		store.GET("/shop", handlers.HandleGetShop(svc.Client, logger))
		store.GET("/order", handlers.HandleGetOrder(svc.Client, logger))
		store.GET("/draft-order", handlers.HandleGetDraftOrder(svc.Client, logger))
		store.GET("/product", handlers.HandleGetProduct(svc.Client, logger))
		store.GET("/customer", handlers.HandleGetCustomer(svc.Client, logger))
		store.GET("/orders", handlers.HandleListOrders(svc.Orders, logger))
		store.GET("/products/search", handlers.HandleSearchProducts(svc.Client))
	}

	invoices := api.Group("/invoices")
	invoices.Use(svc.Auth.RequireAdmin())
	{
		invoices.POST("/derive", handlers.HandleDeriveInvoice(svc.Invoices, logger))
		invoices.GET("/new", handlers.HandleNewInvoice(svc.Invoices))
		invoices.POST("/edit", handlers.HandleEditInvoice(svc.Invoices, logger))
		invoices.POST("/validate", handlers.HandleValidateInvoice())
		invoices.POST("/export", handlers.HandleExportInvoice(svc.Exports, logger))
		invoices.GET("/exports", handlers.HandleListExports(svc.Exports, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal server error",
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
	}
}
