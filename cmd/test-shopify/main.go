package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	token := cfg.Shopify.AccessToken
	fmt.Printf("Testing Shopify connection...\n\n")
	fmt.Printf("Store:        %s\n", shopify.StoreName(cfg.Shopify.StoreURL))
	fmt.Printf("API base:     %s\n", shopify.BaseURL(cfg.Shopify.StoreURL, cfg.Shopify.APIVersion))
	fmt.Printf("Access Token: %s...%s\n", token[:min(10, len(token))], token[max(0, len(token)-4):])
	fmt.Println()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client, err := shopify.NewClient(cfg.Shopify, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shop, err := client.TestConnection(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection failed: %v\n\n", err)
		fmt.Println("Please check:")
		fmt.Println("  1. SHOPIFY_STORE_URL: store name, name.myshopify.com or https://name.myshopify.com")
		fmt.Println("  2. SHOPIFY_ADMIN_API_TOKEN: should start with 'shpat_' and be the full token")
		fmt.Println("  3. Token permissions: needs read_orders, read_draft_orders, read_products, read_customers")
		os.Exit(1)
	}

	fmt.Println("Connection successful!")
	fmt.Printf("Shop:     %s\n", shop.Name)
	fmt.Printf("Domain:   %s\n", shop.MyshopifyDomain)
	fmt.Printf("Currency: %s\n", shop.Currency)
}
