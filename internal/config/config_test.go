package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SHOPIFY_STORE_URL", "atelier.myshopify.com")
	t.Setenv("SHOPIFY_ADMIN_API_TOKEN", "shpat_test")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "2023-10", cfg.Shopify.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Shopify.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "EXW", cfg.Invoice.DeliveryTerms)
	assert.Equal(t, "GBP", cfg.Invoice.Currency)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SHOPIFY_TIMEOUT", "5s")
	t.Setenv("AUTH_TOKEN_TTL", "bogus")
	t.Setenv("DATABASE_ENABLED", "true")
	t.Setenv("DB_NAME", "exports")
	t.Setenv("LOG_FILE", " /tmp/app.log ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Shopify.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "exports", cfg.Database.DBName)
	assert.Equal(t, "/tmp/app.log", cfg.LogFile)
}

func TestLoad_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"store", "SHOPIFY_STORE_URL"},
		{"token", "SHOPIFY_ADMIN_API_TOKEN"},
		{"admin user", "ADMIN_USERNAME"},
		{"admin password", "ADMIN_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.unset)
		})
	}
}
