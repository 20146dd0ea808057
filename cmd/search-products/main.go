package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/search-products/main.go <title words>")
		fmt.Println("Example: go run cmd/search-products/main.go arc lamp")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(os.Args[1:], " "))

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products := client.SearchProducts(ctx, query, 20)
	fmt.Printf("Products matching %q: %d\n\n", query, len(products))
	for _, p := range products {
		fmt.Printf("  %d  %s\n", p.ID, p.Title)
		for _, v := range p.Variants {
			fmt.Printf("      variant %d  %-24s sku=%-14s %s\n", v.ID, v.Title, v.SKU, v.Price.StringFixed(2))
		}
	}
}
