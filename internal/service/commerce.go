package service

import (
	"context"

	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

// OrderSource lists orders and draft orders one page at a time
type OrderSource interface {
	FetchOrders(ctx context.Context, limit int, status, cursor string) (*shopify.OrderPage, error)
	FetchDraftOrders(ctx context.Context, limit int, cursor string) (*shopify.OrderPage, error)
}

// CommerceClient is everything the back office reads from the store.
// *shopify.Client implements it.
type CommerceClient interface {
	OrderSource

	FetchOrder(ctx context.Context, id int64) (*shopify.Order, error)
	FetchDraftOrder(ctx context.Context, id int64) (*shopify.Order, error)
	FetchProduct(ctx context.Context, id int64) (*shopify.Product, error)
	FetchProductMeta(ctx context.Context, id int64) (map[string]string, error)
	FetchCustomer(ctx context.Context, id int64) (*shopify.Customer, error)
	FetchShopDetails(ctx context.Context) (*shopify.Shop, error)
	TestConnection(ctx context.Context) (*shopify.Shop, error)
	SearchProducts(ctx context.Context, query string, limit int) []shopify.Product
	FetchImage(ctx context.Context, url string) ([]byte, string, error)
}

var _ CommerceClient = (*shopify.Client)(nil)
