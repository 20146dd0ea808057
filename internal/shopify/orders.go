package shopify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const orderFields = "id,order_number,name,email,created_at,updated_at,total_price,subtotal_price,total_tax," +
	"currency,financial_status,fulfillment_status,customer,line_items,shipping_address,billing_address"

// MaxPageSize is the largest page Shopify's REST API returns
const MaxPageSize = 250

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// FetchOrders fetches one page of confirmed orders. With a cursor Shopify only
// accepts limit/fields, so status is dropped on follow-up pages.
func (c *Client) FetchOrders(ctx context.Context, limit int, status, cursor string) (*OrderPage, error) {
	if status == "" {
		status = "any"
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))
	q.Set("fields", orderFields)
	if cursor != "" {
		q.Set("page_info", cursor)
	} else {
		q.Set("status", status)
	}

	var body struct {
		Orders []Order `json:"orders"`
	}
	pagination, err := c.get(ctx, "/orders.json", q, &body)
	if err != nil {
		c.logger.Error("Error fetching orders", zap.Error(err))
		return nil, err
	}

	orders := body.Orders
	if orders == nil {
		orders = []Order{}
	}
	for i := range orders {
		orders[i].asRegular()
	}
	return &OrderPage{Orders: orders, Pagination: pagination}, nil
}

// FetchDraftOrders fetches one page of draft orders
func (c *Client) FetchDraftOrders(ctx context.Context, limit int, cursor string) (*OrderPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))
	if cursor != "" {
		q.Set("page_info", cursor)
	}

	var body struct {
		DraftOrders []Order `json:"draft_orders"`
	}
	pagination, err := c.get(ctx, "/draft_orders.json", q, &body)
	if err != nil {
		c.logger.Error("Error fetching draft orders", zap.Error(err))
		return nil, err
	}

	orders := body.DraftOrders
	if orders == nil {
		orders = []Order{}
	}
	for i := range orders {
		orders[i].asDraft()
	}
	return &OrderPage{Orders: orders, Pagination: pagination}, nil
}

// FetchOrder fetches a single confirmed order
func (c *Client) FetchOrder(ctx context.Context, id int64) (*Order, error) {
	var body struct {
		Order *Order `json:"order"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/orders/%d.json", id), nil, &body); err != nil {
		c.logger.Error("Error fetching order", zap.Int64("order_id", id), zap.Error(err))
		return nil, err
	}
	if body.Order == nil {
		return nil, &APIError{StatusCode: 404, Status: "Not Found", Path: fmt.Sprintf("/orders/%d.json", id)}
	}
	body.Order.asRegular()
	return body.Order, nil
}

// FetchDraftOrder fetches a single draft order
func (c *Client) FetchDraftOrder(ctx context.Context, id int64) (*Order, error) {
	var body struct {
		DraftOrder *Order `json:"draft_order"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/draft_orders/%d.json", id), nil, &body); err != nil {
		c.logger.Error("Error fetching draft order", zap.Int64("draft_order_id", id), zap.Error(err))
		return nil, err
	}
	if body.DraftOrder == nil {
		return nil, &APIError{StatusCode: 404, Status: "Not Found", Path: fmt.Sprintf("/draft_orders/%d.json", id)}
	}
	body.DraftOrder.asDraft()
	return body.DraftOrder, nil
}
