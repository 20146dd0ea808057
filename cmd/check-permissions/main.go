package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

type check struct {
	scope string
	what  string
	run   func(ctx context.Context) (string, error)
}

// Probes each Admin API scope the invoice back office reads with.
func main() {
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

	// set by the products check, read by the metafields check
	var sampleProductID int64

	checks := []check{
		{"read_orders", "list orders", func(ctx context.Context) (string, error) {
			page, err := client.FetchOrders(ctx, 1, "any", "")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d order(s) visible on the first page", len(page.Orders)), nil
		}},
		{"read_draft_orders", "list draft orders", func(ctx context.Context) (string, error) {
			page, err := client.FetchDraftOrders(ctx, 1, "")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d draft order(s) visible on the first page", len(page.Orders)), nil
		}},
		{"read_products", "search products over GraphQL", func(ctx context.Context) (string, error) {
			resp, err := client.Execute(ctx, shopify.ProductSearchQuery, map[string]interface{}{"query": "status:active", "first": 1})
			if err != nil {
				return "", err
			}
			var data struct {
				Products struct {
					Edges []struct {
						Node struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"products"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return "", err
			}
			if len(data.Products.Edges) == 0 {
				return "permission works, but no products found", nil
			}
			node := data.Products.Edges[0].Node
			sampleProductID, _ = shopify.ExtractIDFromGID(node.ID)
			return "found product: " + node.Title, nil
		}},
		{"read_metaobjects", "read product technical information", func(ctx context.Context) (string, error) {
			if sampleProductID == 0 {
				return "skipped, no product to read", nil
			}
			meta, err := client.FetchProductMeta(ctx, sampleProductID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d attribute(s) on product %d", len(meta), sampleProductID), nil
		}},
		{"shop", "read the shop over REST and GraphQL", func(ctx context.Context) (string, error) {
			shop, err := client.TestConnection(ctx)
			if err != nil {
				return "", err
			}
			return "connected to " + shop.Name, nil
		}},
	}

	fmt.Println("Checking API permissions...")
	failed := 0
	for i, ch := range checks {
		fmt.Printf("\n%d. Testing '%s' (%s)...\n", i+1, ch.scope, ch.what)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		msg, err := ch.run(ctx)
		cancel()
		if err != nil {
			failed++
			fmt.Printf("   Failed: %v\n", err)
			if strings.HasPrefix(ch.scope, "read_") {
				fmt.Printf("   -> You need to add the '%s' scope to your app\n", ch.scope)
			}
			continue
		}
		fmt.Printf("   OK: %s\n", msg)
	}

	fmt.Println("\nRequired scopes for the invoice back office:")
	fmt.Println("   - read_orders (order feed and invoice derivation)")
	fmt.Println("   - read_draft_orders (draft orders in the feed)")
	fmt.Println("   - read_products (product search, images, variants)")
	fmt.Println("   - read_metaobjects (technical information on line items)")
	fmt.Println("   - read_customers (customer names and addresses)")
	fmt.Println("\nTo add scopes:")
	fmt.Println("   1. Go to Shopify Admin > Settings > Apps and sales channels")
	fmt.Println("   2. Click 'Develop apps' > Your app")
	fmt.Println("   3. Click 'Configure Admin API scopes'")
	fmt.Println("   4. Add the required scopes and reinstall the app")

	if failed > 0 {
		os.Exit(1)
	}
}
