package api

import (
	"context"
	"net/http"
	"net/url"
)

// Role is a named permission set within a tenant.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// RolesService manages tenant roles.
type RolesService struct {
	client *Client
}

// List returns all roles for the caller's tenant.
func (s *RolesService) List(ctx context.Context) ([]Role, error) {
	var out []Role
	if err := s.client.do(ctx, http.MethodGet, "/platform/api/v1/roles", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Assign grants a role to a user.
func (s *RolesService) Assign(ctx context.Context, userID, roleID string) error {
	body := map[string]string{"userId": userID, "roleId": roleID}
	return s.client.do(ctx, http.MethodPost, "/platform/api/v1/roles/assignments", nil, body, nil)
}

// Revoke removes a role from a user.
func (s *RolesService) Revoke(ctx context.Context, userID, roleID string) error {
	path := "/platform/api/v1/roles/assignments/" + url.PathEscape(userID) + "/" + url.PathEscape(roleID)
	return s.client.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
