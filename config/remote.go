package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// IdentityConfig is the identity provider's public client configuration as
// published by the gateway.
type IdentityConfig struct {
	UserPoolID string `json:"userPoolId"`
	ClientID   string `json:"clientId"`
	Region     string `json:"region"`
	Domain     string `json:"domain"`
}

// FetchIdentityConfig pulls the provider configuration from the gateway's
// config endpoint, falling back to the statically configured values on any
// failure. The fallback keeps clients bootable when the gateway is down.
func FetchIdentityConfig(ctx context.Context, baseURL string, static *Config, logger *slog.Logger) IdentityConfig {
	fallback := IdentityConfig{
		UserPoolID: static.CognitoUserPoolID,
		ClientID:   static.CognitoClientID,
		Region:     static.CognitoRegion,
		Domain:     static.CognitoDomain,
	}
	if logger == nil {
		logger = slog.Default()
	}

	fetched, err := fetchRemote(ctx, baseURL)
	if err != nil {
		logger.WarnContext(ctx, "remote identity config unavailable, using static fallback", "error", err)
		return fallback
	}
	return fetched
}

func fetchRemote(ctx context.Context, baseURL string) (IdentityConfig, error) {
	url := strings.TrimRight(baseURL, "/") + "/api/config/cognito"

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return IdentityConfig{}, fmt.Errorf("building config request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return IdentityConfig{}, fmt.Errorf("fetching config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return IdentityConfig{}, fmt.Errorf("config endpoint returned status %d", resp.StatusCode)
	}

	var cfg IdentityConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return IdentityConfig{}, fmt.Errorf("decoding config response: %w", err)
	}
	if cfg.UserPoolID == "" || cfg.ClientID == "" {
		return IdentityConfig{}, fmt.Errorf("config response missing pool or client id")
	}
	return cfg, nil
}
