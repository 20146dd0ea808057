package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/api/middleware"
	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/service"
)

// HandleLogin handles POST /api/auth/login
func HandleLogin(cfg *config.Config, auth *middleware.Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "username and password are required"})
			return
		}

		token, err := auth.Login(req.Username, req.Password)
		if err != nil {
			logger.Info("Login rejected", zap.String("username", req.Username), zap.String("client_ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}

		setSessionCookie(c, cfg, token, int(auth.TTL().Seconds()))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful"})
	}
}

// HandleLogout handles POST /api/auth/logout
func HandleLogout(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		setSessionCookie(c, cfg, "", -1)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
	}
}

// HandleMe handles GET /api/auth/me
func HandleMe(auth *middleware.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.TokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
			return
		}
		claims, err := auth.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "username": claims.Username})
	}
}

func setSessionCookie(c *gin.Context, cfg *config.Config, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.CookieName, value, maxAge, "/", "", cfg.Environment == "production", true)
}
