package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/service"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

// Prints the order feed the back office shows.
// Usage: list-orders [-type all|regular|draft] [-limit 25] [-cursor regular:<page_info>]
func main() {
	kindFlag := flag.String("type", "all", "order source: all, regular or draft")
	limit := flag.Int("limit", service.DefaultOrderLimit, "number of orders")
	cursor := flag.String("cursor", "", "cursor from a previous page")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	kind, err := domain.ParseListKind(*kindFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client, err := shopify.NewClient(cfg.Shopify, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	feed, err := service.NewOrderAggregator(client, logger).ListOrders(ctx, *limit, *cursor, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list orders: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Orders (%s):\n\n", feed.Kind)
	for i, o := range feed.Orders {
		fmt.Printf("%3d. %-8s %-10s %s  %-20s %s %s  [%s]\n",
			i+1,
			o.Name,
			o.OrderType,
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.Customer.DisplayName(),
			o.TotalPrice.StringFixed(2),
			o.Currency,
			o.FinancialStatus,
		)
	}
	if len(feed.Orders) == 0 {
		fmt.Println("  (no orders)")
	}

	fmt.Println()
	if feed.Pagination.NextCursor != "" {
		fmt.Printf("Next page:     -cursor %s\n", feed.Pagination.NextCursor)
	}
	if feed.Pagination.PreviousCursor != "" {
		fmt.Printf("Previous page: -cursor %s\n", feed.Pagination.PreviousCursor)
	}
	if kind == domain.ListKindAll && feed.Pagination.HasNext {
		fmt.Println("More orders exist; use -type regular or -type draft to page through them.")
	}
}
