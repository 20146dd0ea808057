package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFile     string // LOG_FILE: optional JSON log file teed next to stdout
	Database    DatabaseConfig
	Shopify     ShopifyConfig
	Auth        AuthConfig
	Invoice     InvoiceConfig
}

type DatabaseConfig struct {
	Enabled  bool // DATABASE_ENABLED: export log is skipped when false
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ShopifyConfig holds the store identifier as given by the operator (bare name,
// name.myshopify.com or full URL); the client normalises it.
type ShopifyConfig struct {
	StoreURL    string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
}

// AuthConfig is the single admin credential pair for the back office
type AuthConfig struct {
	Username string
	Password string
	Secret   string // AUTH_SECRET: signs session tokens
	TokenTTL time.Duration
}

// InvoiceConfig carries the document defaults that are not derived from Shopify
type InvoiceConfig struct {
	DeliveryTerms string
	Terms         string
	Currency      string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2023-10")

	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		LogFile:     strings.TrimSpace(getEnvOrViper("LOG_FILE", "")),
		Database:    LoadDatabase(),
		Shopify: ShopifyConfig{
			StoreURL:    strings.TrimSpace(getEnvOrViper("SHOPIFY_STORE_URL", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ADMIN_API_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2023-10"),
			Timeout:     getDurationOrDefault("SHOPIFY_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			Username: strings.TrimSpace(getEnvOrViper("ADMIN_USERNAME", "")),
			Password: getEnvOrViper("ADMIN_PASSWORD", ""),
			Secret:   getEnvOrViper("AUTH_SECRET", "change-me-in-production"),
			TokenTTL: getDurationOrDefault("AUTH_TOKEN_TTL", 24*time.Hour),
		},
		Invoice: InvoiceConfig{
			DeliveryTerms: getEnvOrViper("INVOICE_DELIVERY_TERMS", "EXW"),
			Terms:         getEnvOrViper("INVOICE_TERMS", "Payment due within 30 days"),
			Currency:      getEnvOrViper("INVOICE_CURRENCY", "GBP"),
		},
	}

	// Validate required fields
	if cfg.Shopify.StoreURL == "" {
		return nil, fmt.Errorf("SHOPIFY_STORE_URL is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ADMIN_API_TOKEN is required")
	}
	if cfg.Auth.Username == "" || cfg.Auth.Password == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	return cfg, nil
}

// LoadDatabase reads only the DB_* settings. CLI tools that touch the export
// log use it so they run without Shopify or admin credentials.
func LoadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Enabled:  getEnvOrViper("DATABASE_ENABLED", "false") == "true",
		Host:     getEnvOrViper("DB_HOST", "localhost"),
		Port:     getEnvOrViper("DB_PORT", "5432"),
		User:     getEnvOrViper("DB_USER", "postgres"),
		Password: getEnvOrViper("DB_PASSWORD", "postgres"),
		DBName:   getEnvOrViper("DB_NAME", "invoices"),
		SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
	}
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
