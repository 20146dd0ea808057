package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

var errUpstream = &shopify.APIError{StatusCode: 500, Status: "Internal Server Error"}

// fakeClient is an in-memory CommerceClient
type fakeClient struct {
	mu sync.Mutex

	orders      []shopify.Order
	drafts      []shopify.Order
	ordersPage  shopify.Pagination
	draftsPage  shopify.Pagination
	ordersErr   error
	draftsErr   error
	products    map[int64]*shopify.Product
	productErr  map[int64]error
	meta        map[int64]map[string]string
	metaErr     error
	shop        *shopify.Shop
	shopErr     error
	images      map[string][]byte
	search      []shopify.Product
	orderLimits []int
	cursors     []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		products:   map[int64]*shopify.Product{},
		productErr: map[int64]error{},
		meta:       map[int64]map[string]string{},
		images:     map[string][]byte{},
	}
}

func (f *fakeClient) record(limit int, cursor string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderLimits = append(f.orderLimits, limit)
	f.cursors = append(f.cursors, cursor)
}

func (f *fakeClient) FetchOrders(_ context.Context, limit int, _ string, cursor string) (*shopify.OrderPage, error) {
	f.record(limit, cursor)
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return &shopify.OrderPage{Orders: head(f.orders, limit), Pagination: f.ordersPage}, nil
}

func (f *fakeClient) FetchDraftOrders(_ context.Context, limit int, cursor string) (*shopify.OrderPage, error) {
	f.record(limit, cursor)
	if f.draftsErr != nil {
		return nil, f.draftsErr
	}
	return &shopify.OrderPage{Orders: head(f.drafts, limit), Pagination: f.draftsPage}, nil
}

func head(orders []shopify.Order, n int) []shopify.Order {
	out := append([]shopify.Order{}, orders...)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (f *fakeClient) find(list []shopify.Order, id int64) (*shopify.Order, error) {
	for i := range list {
		if list[i].ID == id {
			o := list[i]
			return &o, nil
		}
	}
	return nil, &shopify.APIError{StatusCode: 404, Status: "Not Found"}
}

func (f *fakeClient) FetchOrder(_ context.Context, id int64) (*shopify.Order, error) {
	return f.find(f.orders, id)
}

func (f *fakeClient) FetchDraftOrder(_ context.Context, id int64) (*shopify.Order, error) {
	return f.find(f.drafts, id)
}

func (f *fakeClient) FetchProduct(_ context.Context, id int64) (*shopify.Product, error) {
	if err := f.productErr[id]; err != nil {
		return nil, err
	}
	return f.products[id], nil
}

func (f *fakeClient) FetchProductMeta(_ context.Context, id int64) (map[string]string, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.meta[id], nil
}

func (f *fakeClient) FetchCustomer(context.Context, int64) (*shopify.Customer, error) {
	return nil, nil
}

func (f *fakeClient) FetchShopDetails(context.Context) (*shopify.Shop, error) {
	if f.shopErr != nil {
		return nil, f.shopErr
	}
	if f.shop == nil {
		return nil, errors.New("no shop")
	}
	return f.shop, nil
}

func (f *fakeClient) TestConnection(ctx context.Context) (*shopify.Shop, error) {
	return f.FetchShopDetails(ctx)
}

func (f *fakeClient) SearchProducts(_ context.Context, query string, limit int) []shopify.Product {
	return shopify.FilterByTitle(f.search, query, limit)
}

func (f *fakeClient) FetchImage(_ context.Context, url string) ([]byte, string, error) {
	data, ok := f.images[url]
	if !ok {
		return nil, "", &shopify.APIError{StatusCode: 404, Status: "Not Found", Path: url}
	}
	return data, "image/png", nil
}

func ptr[T any](v T) *T {
	return &v
}

func money(s string) shopify.Money {
	return shopify.NewMoney(decimal.RequireFromString(s))
}

func at(day int) time.Time {
	return time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
}

func regularOrder(id int64, number int64, created time.Time) shopify.Order {
	return shopify.Order{
		ID:          id,
		OrderNumber: ptr(number),
		Name:        "#" + decimal.NewFromInt(number).String(),
		CreatedAt:   created,
		OrderType:   domain.OrderTypeRegular,
	}
}

func draftOrder(id int64, created time.Time) shopify.Order {
	return shopify.Order{
		ID:        id,
		Name:      "#D" + decimal.NewFromInt(id).String(),
		CreatedAt: created,
		OrderType: domain.OrderTypeDraft,
	}
}
