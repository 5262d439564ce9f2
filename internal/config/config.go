package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	FrontendURL   string
	TokenSecret   string
	TokenDuration time.Duration

	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string

	// bcrypt hash of the admin token; empty disables admin endpoints
	AdminTokenHash string

	GeminiAPIKey string
	GeminiModel  string

	AWSRegion      string
	AlertFromEmail string
	AlertToEmail   string

	QuoteRequestsPerMinute int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DB_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./typetracker.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		TokenSecret:   getEnv("TOKEN_SECRET", "dev-only-secret"),
		TokenDuration: 24 * time.Hour,

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),

		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),

		AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
		AlertFromEmail: getEnv("ALERT_FROM_EMAIL", ""),
		AlertToEmail:   getEnv("ALERT_TO_EMAIL", ""),

		QuoteRequestsPerMinute: getEnvInt("QUOTE_REQUESTS_PER_MINUTE", 10),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
