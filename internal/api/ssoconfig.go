package api

import (
	"context"
	"net/http"
)

// SSOConfig is a tenant's federated sign-in configuration.
type SSOConfig struct {
	Provider    string `json:"provider"`
	MetadataURL string `json:"metadataUrl"`
	Enabled     bool   `json:"enabled"`
}

// SSOConfigService manages the tenant's SSO configuration.
type SSOConfigService struct {
	client *Client
}

// Get returns the current SSO configuration.
func (s *SSOConfigService) Get(ctx context.Context) (*SSOConfig, error) {
	var out SSOConfig
	if err := s.client.do(ctx, http.MethodGet, "/auth/api/v1/sso-config", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the SSO configuration.
func (s *SSOConfigService) Update(ctx context.Context, cfg SSOConfig) (*SSOConfig, error) {
	var out SSOConfig
	if err := s.client.do(ctx, http.MethodPut, "/auth/api/v1/sso-config", nil, cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the SSO configuration, reverting the tenant to password
// sign-in.
func (s *SSOConfigService) Delete(ctx context.Context) error {
	return s.client.do(ctx, http.MethodDelete, "/auth/api/v1/sso-config", nil, nil, nil)
}
