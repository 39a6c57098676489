package config

import "os"

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	CloudWatchEnabled bool   // Feature flag for CloudWatch metrics
	CloudWatchRegion  string // AWS region for the metrics client

	// CORS
	AllowedOrigins string // Comma-separated list, * for any
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		CloudWatchEnabled: getEnv("CLOUDWATCH_ENABLED", "false") == "true",
		CloudWatchRegion:  getEnv("CLOUDWATCH_REGION", "us-east-1"),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// IsProduction returns true when metrics and release tracking should be live
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
