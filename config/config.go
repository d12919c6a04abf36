package config

import "os"

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	Port         string
	LogLevel     string
	DatabaseURL  string
	GeminiAPIKey string

	// SendGridBaseURL is overridable so tests can point the email
	// client at a stub server.
	SendGridBaseURL string

	// Boot defaults for email settings; the persisted settings slot
	// takes precedence once loaded.
	SendGridAPIKey string
	SenderEmail    string
	SenderName     string

	// UPI payee used when building payment QR codes.
	UPIID        string
	MerchantName string
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load reads configuration from environment variables into AppConfig.
func Load() {
	AppConfig = Config{
		Port:            getEnv("PORT", "3000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		SendGridBaseURL: getEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		SenderEmail:     os.Getenv("SENDER_EMAIL"),
		SenderName:      getEnv("SENDER_NAME", "Retail Store"),
		UPIID:           getEnv("UPI_ID", "retailstore@okicici"),
		MerchantName:    getEnv("MERCHANT_NAME", "Retail Store"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
