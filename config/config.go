package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port             string        // Service port
	GatewayBaseURL   string        // Backend gateway base URL for resource clients
	LoginRoute       string        // Route the classifier and guards redirect to
	HomeRoute        string        // Route guest guards redirect to
	VerifyEmailRoute string        // Route unconfirmed sign-ins redirect to
	SkipRedirectURLs []string      // URL substrings exempt from the login redirect
	CacheTTL         time.Duration // Verified-token cache TTL
	InternalSecret   string        // Shared secret for internal route authentication

	CognitoRegion     string // Identity provider region
	CognitoUserPoolID string // User pool id
	CognitoClientID   string // App client id
	CognitoDomain     string // Hosted-UI domain for federated sign-in
	RedirectURI       string // OAuth2 redirect target for federated sign-in
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:              getEnv("PORT", "8888"),
		GatewayBaseURL:    getEnv("GATEWAY_BASE_URL", "http://localhost:8080"),
		LoginRoute:        getEnv("LOGIN_ROUTE", "/auth/login"),
		HomeRoute:         getEnv("HOME_ROUTE", "/app"),
		VerifyEmailRoute:  getEnv("VERIFY_EMAIL_ROUTE", "/auth/verify-email"),
		CacheTTL:          5 * time.Minute, // Default 5 minutes
		InternalSecret:    getEnv("INTERNAL_SHARED_SECRET", ""),
		CognitoRegion:     getEnv("COGNITO_REGION", ""),
		CognitoUserPoolID: getEnv("COGNITO_USER_POOL_ID", ""),
		CognitoClientID:   getEnv("COGNITO_CLIENT_ID", ""),
		CognitoDomain:     getEnv("COGNITO_DOMAIN", ""),
		RedirectURI:       getEnv("OAUTH_REDIRECT_URI", ""),
	}

	// Comma-separated override for the redirect allow-list
	if raw := getEnv("SKIP_REDIRECT_URLS", ""); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				config.SkipRedirectURLs = append(config.SkipRedirectURLs, trimmed)
			}
		}
	}

	// Parse CACHE_TTL if provided
	if cacheTTLStr := os.Getenv("CACHE_TTL"); cacheTTLStr != "" {
		duration, err := time.ParseDuration(cacheTTLStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL format: %w", err)
		}
		config.CacheTTL = duration
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.CognitoRegion == "" {
		return fmt.Errorf("COGNITO_REGION cannot be empty")
	}

	if c.CognitoUserPoolID == "" {
		return fmt.Errorf("COGNITO_USER_POOL_ID cannot be empty")
	}

	if c.CognitoClientID == "" {
		return fmt.Errorf("COGNITO_CLIENT_ID cannot be empty")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
