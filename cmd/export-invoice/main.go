package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/pdf"
	"github.com/signal-over-noise/shopify-invoice-app/internal/repository"
	"github.com/signal-over-noise/shopify-invoice-app/internal/repository/postgres"
	"github.com/signal-over-noise/shopify-invoice-app/internal/service"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

// Derives a pro-forma invoice from a Shopify order and writes the PDF.
func main() {
	draft := flag.Bool("draft", false, "the id is a draft order id")
	outDir := flag.String("out", ".", "directory to write the PDF to")
	flag.Usage = func() {
		fmt.Println("Usage: go run cmd/export-invoice/main.go [-draft] [-out dir] <shopify_order_id>")
		fmt.Println("Example: go run cmd/export-invoice/main.go 6349083345108")
		fmt.Println("Example: go run cmd/export-invoice/main.go -draft 1122334455")
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	orderID, err := strconv.ParseInt(strings.TrimSpace(flag.Arg(0)), 10, 64)
	if err != nil || orderID <= 0 {
		fmt.Fprintf(os.Stderr, "Invalid order id %q\n", flag.Arg(0))
		os.Exit(1)
	}
	orderType := domain.OrderTypeRegular
	if *draft {
		orderType = domain.OrderTypeDraft
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client, err := shopify.NewClient(cfg.Shopify, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}

	repos := repository.NewNoopRepositories()
	if cfg.Database.Enabled {
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		repos = postgres.NewRepositories(db, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	invoices := service.NewInvoiceService(client, cfg.Invoice, logger)
	doc, err := invoices.FromOrderID(ctx, orderID, orderType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to derive invoice: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Invoice %s for order %s\n", doc.InvoiceNumber, doc.OrderNumber)
	fmt.Printf("  Customer: %s <%s>\n", doc.Customer.Name, doc.Customer.Email)
	for _, item := range doc.LineItems {
		fmt.Printf("  %3d x %-40s %10s\n", item.Quantity, item.Title, item.Total.StringFixed(2))
	}
	fmt.Printf("  Total: %s %s\n", doc.Total.StringFixed(2), doc.Currency)

	exporter := service.NewExportService(invoices, pdf.NewRenderer(logger), repos, logger)
	res, err := exporter.Export(ctx, doc, "cli")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export invoice: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(*outDir, res.Filename)
	if err := os.WriteFile(path, res.PDF, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", path, len(res.PDF))
}
