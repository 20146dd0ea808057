package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/pkg/errors"
)

const (
	AdminContextKey = "admin"
	CookieName      = "auth_token"
)

var errInvalidCredentials = &errors.ErrUnauthorized{Message: "Invalid credentials"}

// Claims is the session token payload
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator checks the single admin credential pair and issues signed
// session tokens.
type Authenticator struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	logger       *zap.Logger
}

// NewAuthenticator hashes the configured admin password once at startup
func NewAuthenticator(cfg config.AuthConfig, logger *zap.Logger) (*Authenticator, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("admin credentials are not configured")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authenticator{
		username:     cfg.Username,
		passwordHash: hash,
		secret:       []byte(cfg.Secret),
		ttl:          ttl,
		logger:       logger.Named("auth"),
	}, nil
}

// TTL is how long issued tokens stay valid
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// Login verifies the credentials and returns a signed token
func (a *Authenticator) Login(username, password string) (string, error) {
	if username != a.username {
		return "", errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", errInvalidCredentials
	}
	return a.Issue(username, time.Now())
}

// Issue signs a token for username valid from now for the configured TTL
func (a *Authenticator) Issue(username string, now time.Time) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of token
func (a *Authenticator) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, &errors.ErrUnauthorized{Message: "invalid or expired session"}
	}
	if claims.Username != a.username {
		return nil, &errors.ErrUnauthorized{Message: "unknown user"}
	}
	return claims, nil
}

// RequireAdmin authenticates requests by the auth_token cookie or a Bearer header
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}

		claims, err := a.Verify(token)
		if err != nil {
			a.logger.Debug("Rejected session token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.Set(AdminContextKey, claims.Username)
		c.Next()
	}
}

// TokenFromRequest reads the session token from the cookie, then the Authorization header
func TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetAdminFromContext returns the authenticated username
func GetAdminFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(AdminContextKey)
	if !exists {
		return "", false
	}
	username, ok := v.(string)
	return username, ok
}
