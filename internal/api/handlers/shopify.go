package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/invoice"
	"github.com/signal-over-noise/shopify-invoice-app/internal/service"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

const (
	DefaultSearchLimit = 20
	maxSearchLimit     = 50
	minSearchLength    = 2
)

// HandleTestConnection handles GET /api/shopify/test
func HandleTestConnection(client service.CommerceClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, err := client.TestConnection(c.Request.Context())
		if err != nil {
			logger.Warn("Shopify connection test failed", zap.Error(err))
			fail(c, http.StatusBadGateway, "Connection test failed")
			return
		}
		ok(c, gin.H{"message": "Connection successful", "store": shop.Name})
	}
}

// HandleGetShop handles GET /api/shopify/shop
func HandleGetShop(client service.CommerceClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, err := client.FetchShopDetails(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "fetch shop details")
			return
		}
		country := shop.CountryName
		if country == "" {
			country = shop.Country
		}
		ok(c, gin.H{"shop": gin.H{
			"name":  shop.Name,
			"email": shop.Email,
			"phone": shop.Phone,
			"address": invoice.Address{
				Line1:   shop.Address1,
				Line2:   shop.Address2,
				City:    shop.City,
				State:   shop.Province,
				Country: country,
				Zip:     shop.Zip,
			},
			"domain":   shop.Domain,
			"currency": shop.Currency,
		}})
	}
}

// HandleGetOrder handles GET /api/shopify/order?id=
func HandleGetOrder(client service.CommerceClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := idParam(c, "id", "Order")
		if !valid {
			return
		}
		order, err := client.FetchOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err, "fetch order")
			return
		}
		ok(c, gin.H{"order": order})
	}
}

// HandleGetDraftOrder handles GET /api/shopify/draft-order?id=
func HandleGetDraftOrder(client service.CommerceClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := idParam(c, "id", "Draft Order")
		if !valid {
			return
		}
		order, err := client.FetchDraftOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err, "fetch draft order")
			return
		}
		ok(c, gin.H{"draftOrder": order})
	}
}

// HandleGetProduct handles GET /api/shopify/product?id=. Attribute lookup
// failures are logged and the product is returned without them.
func HandleGetProduct(client service.CommerceClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := idParam(c, "id", "Product")
		if !valid {
			return
		}
		product, err := client.FetchProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err, "fetch product")
			return
		}
		if product == nil {
			fail(c, http.StatusNotFound, "Product not found")
			return
		}

		meta, err := client.FetchProductMeta(c.Request.Context(), id)
		if err != nil {
			logger.Warn("Product attributes unavailable", zap.Int64("product_id", id), zap.Error(err))
		}
		if meta == nil {
			meta = map[string]string{}
		}

		images := product.Images
		if images == nil {
			images = []shopify.Image{}
		}
		variants := product.Variants
		if variants == nil {
			variants = []shopify.Variant{}
		}
		ok(c, gin.H{"product": gin.H{
			"id":            product.ID,
			"title":         product.Title,
			"images":        images,
			"variants":      variants,
			"technicalInfo": meta,
		}})
	}
}

// HandleGetCustomer handles GET /api/shopify/customer?id=
func HandleGetCustomer(client service.CommerceClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := idParam(c, "id", "Customer")
		if !valid {
			return
		}
		customer, err := client.FetchCustomer(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err, "fetch customer")
			return
		}
		if customer == nil {
			fail(c, http.StatusNotFound, "Customer not found")
			return
		}
		ok(c, gin.H{"customer": customer, "displayName": customer.DisplayName()})
	}
}

type searchVariant struct {
	ID    int64         `json:"id"`
	Title string        `json:"title"`
	Price shopify.Money `json:"price"`
	SKU   string        `json:"sku"`
}

type searchProduct struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Image    string          `json:"image,omitempty"`
	Variants []searchVariant `json:"variants"`
}

// HandleSearchProducts handles GET /api/shopify/products/search?q=&limit=.
// Queries shorter than two characters return an empty list without calling
// the store; search itself never fails.
func HandleSearchProducts(client service.CommerceClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len([]rune(q)) < minSearchLength {
			ok(c, gin.H{"products": []searchProduct{}})
			return
		}
		limit := intQuery(c, "limit", DefaultSearchLimit, maxSearchLimit)

		found := client.SearchProducts(c.Request.Context(), q, limit)
		products := make([]searchProduct, 0, len(found))
		for i := range found {
			p := &found[i]
			variants := make([]searchVariant, 0, len(p.Variants))
			for _, v := range p.Variants {
				variants = append(variants, searchVariant{ID: v.ID, Title: v.Title, Price: v.Price, SKU: v.SKU})
			}
			products = append(products, searchProduct{ID: p.ID, Title: p.Title, Image: p.FirstImageURL(), Variants: variants})
		}
		ok(c, gin.H{"products": products})
	}
}
