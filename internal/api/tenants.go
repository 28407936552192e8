package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// TenantLookup is the pre-authentication tenant resolution for a sign-in
// email. Served from an endpoint the failure classifier never redirects
// on, since it runs before a session exists.
type TenantLookup struct {
	TenantID   string `json:"tenantId"`
	TenantType string `json:"tenantType"`
	SSOEnabled bool   `json:"ssoEnabled"`
}

// Tenant is an organization or personal account boundary.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// TenantsService resolves and manages tenants.
type TenantsService struct {
	client *Client
}

// LookupByEmail resolves the tenant an email belongs to.
func (s *TenantsService) LookupByEmail(ctx context.Context, email string) (*TenantLookup, error) {
	query := url.Values{}
	query.Set("email", email)

	var out TenantLookup
	if err := s.client.do(ctx, http.MethodGet, "/auth/api/v1/auth/lookup", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TypeOf returns the tenant's type.
func (s *TenantsService) TypeOf(ctx context.Context, tenantID string) (string, error) {
	var out Tenant
	if err := s.client.do(ctx, http.MethodGet, "/platform/api/v1/tenants/"+url.PathEscape(tenantID), nil, nil, &out); err != nil {
		return "", err
	}
	return out.Type, nil
}

// List returns a page of tenants.
func (s *TenantsService) List(ctx context.Context, page PageRequest) (*Page[Tenant], error) {
	var out Page[Tenant]
	if err := s.client.do(ctx, http.MethodGet, "/platform/api/v1/tenants", page.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a tenant.
func (s *TenantsService) Delete(ctx context.Context, tenantID string) error {
	return s.client.do(ctx, http.MethodDelete, "/platform/api/v1/tenants/"+url.PathEscape(tenantID), nil, nil, nil)
}
