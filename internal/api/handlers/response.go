package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/api/middleware"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
	"github.com/signal-over-noise/shopify-invoice-app/pkg/errors"
)

// ok writes {"success": true, ...payload}
func ok(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondError maps service errors to HTTP statuses. Upstream failures other
// than 404 become 502 with a generic message; details only go to the log.
func respondError(c *gin.Context, logger *zap.Logger, err error, action string) {
	var (
		notFound     *errors.ErrNotFound
		validation   *errors.ErrValidation
		unauthorized *errors.ErrUnauthorized
		apiErr       *shopify.APIError
	)
	switch {
	case stderrors.As(err, &validation):
		body := gin.H{"success": false, "error": validation.Error()}
		if len(validation.Violations) > 0 {
			body["errors"] = validation.Violations
		}
		if len(validation.Fields) > 0 {
			body["fields"] = validation.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case stderrors.As(err, &notFound):
		fail(c, http.StatusNotFound, notFound.Error())
	case stderrors.As(err, &unauthorized):
		fail(c, http.StatusUnauthorized, unauthorized.Error())
	case stderrors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusNotFound {
			fail(c, http.StatusNotFound, "not found")
			return
		}
		logger.Error("Upstream request failed",
			zap.String("action", action),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		fail(c, http.StatusBadGateway, "Failed to "+action)
	default:
		logger.Error("Request failed",
			zap.String("action", action),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, "Failed to "+action)
	}
}

// idParam reads a positive numeric id from the query string
func idParam(c *gin.Context, name, label string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		fail(c, http.StatusBadRequest, label+" ID is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// intQuery parses an integer query value, falling back to def when it is
// missing or not positive, and capping it at max.
func intQuery(c *gin.Context, name string, def, max int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
