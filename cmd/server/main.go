package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/api"
	"github.com/signal-over-noise/shopify-invoice-app/internal/api/middleware"
	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/logging"
	"github.com/signal-over-noise/shopify-invoice-app/internal/pdf"
	"github.com/signal-over-noise/shopify-invoice-app/internal/repository"
	"github.com/signal-over-noise/shopify-invoice-app/internal/repository/postgres"
	"github.com/signal-over-noise/shopify-invoice-app/internal/service"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, cleanup, err := logging.New(cfg.Environment, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer cleanup()

	logger.Info("Starting invoice server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("store", shopify.StoreName(cfg.Shopify.StoreURL)),
	)

	client, err := shopify.NewClient(cfg.Shopify, logger)
	if err != nil {
		logger.Fatal("Failed to create Shopify client", zap.Error(err))
	}

	// Export log: Postgres when enabled, otherwise not recorded
	repos := repository.NewNoopRepositories()
	if cfg.Database.Enabled {
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repos = postgres.NewRepositories(db, logger)
	} else {
		logger.Info("DATABASE_ENABLED is not set; invoice exports will not be recorded")
	}

	auth, err := middleware.NewAuthenticator(cfg.Auth, logger)
	if err != nil {
		logger.Fatal("Failed to initialize authentication", zap.Error(err))
	}

	invoices := service.NewInvoiceService(client, cfg.Invoice, logger)
	svc := &api.Services{
		Client:   client,
		Orders:   service.NewOrderAggregator(client, logger),
		Invoices: invoices,
		Exports:  service.NewExportService(invoices, pdf.NewRenderer(logger), repos, logger),
		Auth:     auth,
	}

	// Initialize router
	router := api.NewRouter(cfg, svc, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // exports download images and render
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
