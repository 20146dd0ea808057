package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/service"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
)

// HandleListOrders handles GET /api/shopify/orders?limit=&page_info=&type=
func HandleListOrders(orders *service.OrderAggregator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, err := domain.ParseListKind(c.Query("type"))
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		limit := intQuery(c, "limit", service.DefaultOrderLimit, shopify.MaxPageSize)

		feed, err := orders.ListOrders(c.Request.Context(), limit, c.Query("page_info"), kind)
		if err != nil {
			respondError(c, logger, err, "fetch orders")
			return
		}

		ok(c, gin.H{
			"orders":     feed.Orders,
			"pagination": feed.Pagination,
			"count":      len(feed.Orders),
			"orderType":  feed.Kind,
		})
	}
}
