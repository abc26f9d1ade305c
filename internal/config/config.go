package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Transbank holds the Webpay Plus merchant credentials. The defaults are
// Transbank's public integration-environment credentials.
type Transbank struct {
	CommerceCode string
	APIKey       string
	Environment  string // "test" or "production"
}

// BaseURL selects the Webpay endpoint for the configured environment.
func (t Transbank) BaseURL() string {
	if t.Environment == "production" {
		return "https://webpay3g.transbank.cl/webpayserver"
	}
	return "https://webpay3gint.transbank.cl/webpayserver"
}

// MercadoPago holds the Mercado Pago API credentials.
type MercadoPago struct {
	AccessToken     string
	PublicKey       string
	NotificationURL string
}

// Contact holds the external contact-relay endpoint credentials.
type Contact struct {
	APIURL      string
	BearerToken string
}

// Pricing holds the product price formula constants.
type Pricing struct {
	BasePrice        float64
	PricePerSquareCM float64
}

// Config is built once in main and injected into every component that needs
// it. Nothing outside this package reads the process environment.
type Config struct {
	Port        string
	AppBaseURL  string
	TestMode    bool
	Transbank   Transbank
	MercadoPago MercadoPago
	Contact     Contact
	Pricing     Pricing
}

// Load reads the process environment (plus an optional .env file) into a
// Config.
func Load() *Config {
	// Missing .env is fine; containers inject the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:       getEnvOrDefault("PORT", "8080"),
		AppBaseURL: getEnvOrDefault("APP_BASE_URL", "http://localhost:8080"),
		TestMode:   getEnvBool("PAYMENT_TEST_MODE", false),
		Transbank: Transbank{
			CommerceCode: getEnvOrDefault("TRANSBANK_COMMERCE_CODE", "597055555532"),
			APIKey:       getEnvOrDefault("TRANSBANK_API_KEY", "579B532A7440BB0C9170D10D8E3CAC2638144F42"),
			Environment:  getEnvOrDefault("TRANSBANK_ENVIRONMENT", "test"),
		},
		MercadoPago: MercadoPago{
			AccessToken:     os.Getenv("MERCADO_PAGO_ACCESS_TOKEN"),
			PublicKey:       os.Getenv("MERCADO_PAGO_PUBLIC_KEY"),
			NotificationURL: os.Getenv("MERCADO_PAGO_NOTIFICATION_URL"),
		},
		Contact: Contact{
			APIURL:      os.Getenv("CONTACT_API_URL"),
			BearerToken: os.Getenv("CONTACT_API_BEARER_TOKEN"),
		},
		Pricing: Pricing{
			BasePrice:        getEnvFloat("PRODUCT_BASE_PRICE", 180000),
			PricePerSquareCM: getEnvFloat("PRODUCT_PRICE_PER_SQUARE_CM", 13.5),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
