package config

import (
	"os"

	"edem-chat-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort string
	LogLevel   string
	AppURL     string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	VertexProjectID string
	VertexLocation  string
	VertexModel     string

	StripeSecretKey     string
	StripeWebhookSecret string
	YooKassaShopID      string
	YooKassaSecretKey   string
	CryptoIPNSecret     string
	CryptoGatewayURL    string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort: getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		AppURL:     getEnvOrDefault("APP_URL", "http://localhost:3000"),

		SupabaseURL:        getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnvOrDefault("SUPABASE_SERVICE_ROLE_KEY", ""),

		VertexProjectID: getEnvOrDefault("VERTEX_PROJECT_ID", ""),
		VertexLocation:  getEnvOrDefault("VERTEX_LOCATION", "us-central1"),
		VertexModel:     getEnvOrDefault("VERTEX_MODEL", "gemini-2.0-flash-001"),

		StripeSecretKey:     getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
		YooKassaShopID:      getEnvOrDefault("YK_SHOP_ID", ""),
		YooKassaSecretKey:   getEnvOrDefault("YK_SECRET_KEY", ""),
		CryptoIPNSecret:     getEnvOrDefault("CRYPTO_IPN_SECRET", ""),
		CryptoGatewayURL:    getEnvOrDefault("CRYPTO_GATEWAY_URL", "https://crypto-payment-gateway.com/pay"),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetAppURL returns the public frontend URL used in checkout redirects
func (c *AppConfig) GetAppURL() string {
	return c.AppURL
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseAnonKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseAnonKey() string {
	return c.SupabaseAnonKey
}

// GetSupabaseServiceKey returns the Supabase service-role key
func (c *AppConfig) GetSupabaseServiceKey() string {
	return c.SupabaseServiceKey
}

// GetVertexProjectID returns the Vertex AI project
func (c *AppConfig) GetVertexProjectID() string {
	return c.VertexProjectID
}

// GetVertexLocation returns the Vertex AI location
func (c *AppConfig) GetVertexLocation() string {
	return c.VertexLocation
}

// GetVertexModel returns the generative model name
func (c *AppConfig) GetVertexModel() string {
	return c.VertexModel
}

// GetStripeSecretKey returns the Stripe API key
func (c *AppConfig) GetStripeSecretKey() string {
	return c.StripeSecretKey
}

// GetStripeWebhookSecret returns the Stripe webhook signing secret
func (c *AppConfig) GetStripeWebhookSecret() string {
	return c.StripeWebhookSecret
}

// GetYooKassaShopID returns the YooKassa shop id
func (c *AppConfig) GetYooKassaShopID() string {
	return c.YooKassaShopID
}

// GetYooKassaSecretKey returns the YooKassa API secret
func (c *AppConfig) GetYooKassaSecretKey() string {
	return c.YooKassaSecretKey
}

// GetCryptoIPNSecret returns the shared secret for crypto IPN signatures
func (c *AppConfig) GetCryptoIPNSecret() string {
	return c.CryptoIPNSecret
}

// GetCryptoGatewayURL returns the hosted crypto payment page base URL
func (c *AppConfig) GetCryptoGatewayURL() string {
	return c.CryptoGatewayURL
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
