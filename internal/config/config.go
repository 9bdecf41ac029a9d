package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig is a struct that contains configuration values for the server.
type ServerConfig struct {
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string
	// SessionCookieName is the name to use for the session cookie.
	SessionCookieName string
	// SessionCookieExpiration is the amount of time a session cookie is valid. Max 5 days.
	SessionCookieExpiration time.Duration
	// Port is the port the server should run on.
	Port int
	// FirebaseCredentialsFile is the path to the service account credentials.
	FirebaseCredentialsFile string
	// StripeAPIKey is the secret key used to create Checkout sessions.
	StripeAPIKey string
	// StripeWebhookSecret verifies webhook event signatures.
	StripeWebhookSecret string
	// Currency is the ISO currency code purchases are charged in.
	Currency string
	// CheckoutSuccessURL and CheckoutCancelURL are the storefront pages
	// Stripe redirects to after checkout.
	CheckoutSuccessURL string
	CheckoutCancelURL  string
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		AllowedOrigins:          []string{"http://localhost:3000"},
		SessionCookieName:       "coursely-session",
		SessionCookieExpiration: time.Hour * 24 * 5,
		Port:                    8080,
		FirebaseCredentialsFile: "firebase-config.json",
		Currency:                "usd",
		CheckoutSuccessURL:      "http://localhost:3000/my-enrollments",
		CheckoutCancelURL:       "http://localhost:3000/",
	}
}

// NewFromEnv builds a ServerConfig from environment variables, falling back
// to the defaults for anything unset.
func NewFromEnv() *ServerConfig {
	cfg := DefaultConfig()

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if credentials := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credentials != "" {
		cfg.FirebaseCredentialsFile = credentials
	}
	if key := os.Getenv("STRIPE_API_KEY"); key != "" {
		cfg.StripeAPIKey = key
	}
	if secret := os.Getenv("STRIPE_WEBHOOK_SECRET"); secret != "" {
		cfg.StripeWebhookSecret = secret
	}
	if currency := os.Getenv("CURRENCY"); currency != "" {
		cfg.Currency = currency
	}
	if url := os.Getenv("CHECKOUT_SUCCESS_URL"); url != "" {
		cfg.CheckoutSuccessURL = url
	}
	if url := os.Getenv("CHECKOUT_CANCEL_URL"); url != "" {
		cfg.CheckoutCancelURL = url
	}

	return cfg
}
