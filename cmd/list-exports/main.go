package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/repository/postgres"
)

// Usage: list-exports [order_id]
func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(config.LoadDatabase())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	ctx := context.Background()

	var exports []*domain.InvoiceExport
	if len(os.Args) > 1 {
		orderID, err := strconv.ParseInt(os.Args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid order id %q\n", os.Args[1])
			os.Exit(1)
		}
		exports, err = repos.InvoiceExport.ListByOrderID(ctx, orderID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list exports: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Invoices exported for order %d:\n\n", orderID)
	} else {
		exports, err = repos.InvoiceExport.ListRecent(ctx, 50)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list exports: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Recent invoice exports:")
		fmt.Println()
	}

	if len(exports) == 0 {
		fmt.Println("  No exports recorded. Exports are logged when the server runs with DATABASE_ENABLED=true.")
		return
	}

	for _, e := range exports {
		order := "-"
		if e.OrderID != nil {
			order = strconv.FormatInt(*e.OrderID, 10)
			if e.OrderType != nil {
				order += " (" + string(*e.OrderType) + ")"
			}
		}
		fmt.Printf("  %s  %-18s order %-22s %-24s %3d items  %s %s  by %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.InvoiceNumber,
			order,
			e.CustomerName,
			e.LineItemCount,
			e.Total.StringFixed(2),
			e.Currency,
			e.ExportedBy,
		)
	}
}
