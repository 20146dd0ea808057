package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SearchFallbackWindow is how many products the fallback search scans. Larger
// catalogs can miss matches beyond this window.
const SearchFallbackWindow = 250

// FetchProduct fetches a product with its variants and images. A product that
// does not exist yields (nil, nil) so callers can render partial data.
func (c *Client) FetchProduct(ctx context.Context, id int64) (*Product, error) {
	var body struct {
		Product *Product `json:"product"`
	}
	if _, err := c.get(ctx, fmt.Sprintf("/products/%d.json", id), nil, &body); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		c.logger.Error("Error fetching product", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}
	return body.Product, nil
}

// FetchProductMeta returns the product's descriptive attributes (collection,
// category, finish, dimensions...) flattened into a string map. Plain metafields
// are keyed by their key; metaobject references are resolved and their fields
// merged in.
func (c *Client) FetchProductMeta(ctx context.Context, id int64) (map[string]string, error) {
	resp, err := c.Execute(ctx, ProductMetafieldsQuery, map[string]interface{}{"id": ProductGID(id)})
	if err != nil {
		return nil, fmt.Errorf("product metafields: %w", err)
	}

	var result struct {
		Product *struct {
			Metafields struct {
				Edges []struct {
					Node struct {
						Namespace string `json:"namespace"`
						Key       string `json:"key"`
						Type      string `json:"type"`
						Value     string `json:"value"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"metafields"`
		} `json:"product"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse product metafields response: %w", err)
	}

	meta := map[string]string{}
	if result.Product == nil {
		return meta, nil
	}

	for _, edge := range result.Product.Metafields.Edges {
		mf := edge.Node
		if strings.Contains(mf.Type, "metaobject_reference") {
			ref := firstReference(mf.Value)
			if ref == "" {
				continue
			}
			fields, err := c.fetchMetaobjectFields(ctx, ref)
			if err != nil {
				c.logger.Warn("Failed to resolve metaobject reference",
					zap.Int64("product_id", id), zap.String("key", mf.Key), zap.Error(err))
				continue
			}
			for k, v := range fields {
				meta[k] = v
			}
			continue
		}
		if strings.HasSuffix(mf.Type, "_reference") || strings.HasPrefix(mf.Type, "list.") || mf.Type == "json" {
			continue
		}
		if v := strings.TrimSpace(mf.Value); v != "" {
			meta[mf.Key] = v
		}
	}
	return meta, nil
}

// firstReference returns the first GID of a reference metafield value, which
// is either a bare GID or a JSON list of GIDs.
func firstReference(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(value), &ids); err != nil || len(ids) == 0 {
			return ""
		}
		return ids[0]
	}
	return value
}

func (c *Client) fetchMetaobjectFields(ctx context.Context, gid string) (map[string]string, error) {
	resp, err := c.Execute(ctx, MetaobjectQuery, map[string]interface{}{"id": gid})
	if err != nil {
		return nil, err
	}
	var result struct {
		Metaobject *struct {
			Fields []struct {
				Key   string  `json:"key"`
				Value *string `json:"value"`
			} `json:"fields"`
		} `json:"metaobject"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse metaobject response: %w", err)
	}
	fields := map[string]string{}
	if result.Metaobject == nil {
		return fields, nil
	}
	for _, f := range result.Metaobject.Fields {
		if f.Value == nil || strings.TrimSpace(*f.Value) == "" || strings.HasPrefix(*f.Value, "gid://") {
			continue
		}
		fields[f.Key] = strings.TrimSpace(*f.Value)
	}
	return fields, nil
}

// SearchProducts searches the catalog by title. The GraphQL search is tried
// first; on any failure the first SearchFallbackWindow products are fetched over
// REST and filtered by case-insensitive title substring. It never fails: if the
// fallback fails too the result is empty.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) []Product {
	if limit <= 0 {
		limit = 20
	}
	products, err := c.searchProductsGraphQL(ctx, query, limit)
	if err == nil {
		return products
	}
	c.logger.Warn("GraphQL search failed, falling back to REST", zap.String("query", query), zap.Error(err))

	products, err = c.searchProductsREST(ctx, query, limit)
	if err != nil {
		c.logger.Error("Fallback search failed", zap.String("query", query), zap.Error(err))
		return []Product{}
	}
	return products
}

func (c *Client) searchProductsGraphQL(ctx context.Context, query string, limit int) ([]Product, error) {
	variables := map[string]interface{}{
		"query": fmt.Sprintf("title:*%s* OR title:%s*", query, query),
		"first": limit,
	}
	resp, err := c.Execute(ctx, ProductSearchQuery, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		Products *struct {
			Edges []struct {
				Node struct {
					ID       string `json:"id"`
					Title    string `json:"title"`
					Handle   string `json:"handle"`
					Status   string `json:"status"`
					Variants struct {
						Edges []struct {
							Node struct {
								ID    string `json:"id"`
								Title string `json:"title"`
								Price Money  `json:"price"`
								SKU   string `json:"sku"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse product search response: %w", err)
	}
	if result.Products == nil {
		return nil, fmt.Errorf("product search response has no products")
	}

	products := make([]Product, 0, len(result.Products.Edges))
	for _, edge := range result.Products.Edges {
		id, err := ExtractIDFromGID(edge.Node.ID)
		if err != nil {
			return nil, err
		}
		p := Product{
			ID:       id,
			Title:    edge.Node.Title,
			Handle:   edge.Node.Handle,
			Status:   edge.Node.Status,
			Variants: make([]Variant, 0, len(edge.Node.Variants.Edges)),
		}
		for _, ve := range edge.Node.Variants.Edges {
			vid, err := ExtractIDFromGID(ve.Node.ID)
			if err != nil {
				return nil, err
			}
			p.Variants = append(p.Variants, Variant{
				ID:        vid,
				ProductID: id,
				Title:     ve.Node.Title,
				Price:     ve.Node.Price,
				SKU:       ve.Node.SKU,
			})
		}
		products = append(products, p)
	}
	return products, nil
}

func (c *Client) searchProductsREST(ctx context.Context, query string, limit int) ([]Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(SearchFallbackWindow))
	q.Set("fields", "id,title,handle,variants")

	var body struct {
		Products []Product `json:"products"`
	}
	if _, err := c.get(ctx, "/products.json", q, &body); err != nil {
		return nil, err
	}
	return FilterByTitle(body.Products, query, limit), nil
}

// FilterByTitle keeps products whose title contains needle (case-insensitive),
// up to limit results.
func FilterByTitle(products []Product, needle string, limit int) []Product {
	needle = strings.ToLower(strings.TrimSpace(needle))
	out := []Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}
