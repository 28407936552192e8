package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Invitation is a pending membership offer for an organization tenant.
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// InvitationsService manages organization invitations.
type InvitationsService struct {
	client *Client
}

// List returns a page of invitations.
func (s *InvitationsService) List(ctx context.Context, page PageRequest) (*Page[Invitation], error) {
	var out Page[Invitation]
	if err := s.client.do(ctx, http.MethodGet, "/platform/api/v1/invitations", page.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create issues an invitation for the given email and role.
func (s *InvitationsService) Create(ctx context.Context, email, role string) (*Invitation, error) {
	body := map[string]string{"email": email, "role": role}
	var out Invitation
	if err := s.client.do(ctx, http.MethodPost, "/platform/api/v1/invitations", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Resend re-sends the invitation email.
func (s *InvitationsService) Resend(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodPost, "/platform/api/v1/invitations/"+url.PathEscape(id)+"/resend", nil, nil, nil)
}

// Revoke cancels a pending invitation.
func (s *InvitationsService) Revoke(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/platform/api/v1/invitations/"+url.PathEscape(id), nil, nil, nil)
}
