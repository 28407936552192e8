package api

import (
	"context"
	"net/http"
	"net/url"
)

// Organization is the profile of an organization tenant.
type Organization struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	GSTIN  string `json:"gstin"`
	Domain string `json:"domain"`
}

// OrganizationsService manages organization profiles.
type OrganizationsService struct {
	client *Client
}

// Get returns the caller's organization profile.
func (s *OrganizationsService) Get(ctx context.Context) (*Organization, error) {
	var out Organization
	if err := s.client.do(ctx, http.MethodGet, "/platform/api/v1/organizations/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the organization profile.
func (s *OrganizationsService) Update(ctx context.Context, org Organization) (*Organization, error) {
	var out Organization
	path := "/platform/api/v1/organizations/" + url.PathEscape(org.ID)
	if err := s.client.do(ctx, http.MethodPut, path, nil, org, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
