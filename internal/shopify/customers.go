package shopify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FetchCustomer fetches a customer by id. A missing customer yields (nil, nil).
func (c *Client) FetchCustomer(ctx context.Context, id int64) (*Customer, error) {
	var body struct {
		Customer *Customer `json:"customer"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/customers/%d.json", id), nil, &body); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		c.logger.Error("Error fetching customer", zap.Int64("customer_id", id), zap.Error(err))
		return nil, err
	}
	return body.Customer, nil
}

// FetchShopDetails fetches the store's own identity and address
func (c *Client) FetchShopDetails(ctx context.Context) (*Shop, error) {
	var body struct {
		Shop *Shop `json:"shop"`
	}
	if _, err := c.get(ctx, "/shop.json", nil, &body); err != nil {
		return nil, err
	}
	if body.Shop == nil {
		return nil, fmt.Errorf("shop response has no shop")
	}
	return body.Shop, nil
}

// TestConnection checks both APIs: REST shop.json for the identity and a
// trivial GraphQL query for the token's GraphQL access.
func (c *Client) TestConnection(ctx context.Context) (*Shop, error) {
	shop, err := c.FetchShopDetails(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := c.Execute(ctx, ShopQuery, nil); err != nil {
		return shop, fmt.Errorf("graphql access: %w", err)
	}
	return shop, nil
}
