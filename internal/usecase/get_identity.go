package usecase

import (
	"context"
	"log/slog"
)

// IdentityResult holds the data returned by GetIdentity for the
// application shell.
type IdentityResult struct {
	UserID        string
	Email         string
	EmailVerified bool
	TenantID      string
	TenantType    string
	Role          string
}

// GetIdentity orchestrates identity retrieval for the session endpoint.
type GetIdentity struct {
	validate *ValidateToken
	logger   *slog.Logger
}

// NewGetIdentity creates a new GetIdentity usecase.
func NewGetIdentity(validate *ValidateToken, l *slog.Logger) *GetIdentity {
	return &GetIdentity{validate: validate, logger: l}
}

// Execute validates the token and shapes the identity for JSON responses.
// Identities without an explicit role default to "user".
func (uc *GetIdentity) Execute(ctx context.Context, rawToken string) (*IdentityResult, error) {
	user, err := uc.validate.Execute(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	role := user.Role
	if role == "" {
		role = "user"
	}

	return &IdentityResult{
		UserID:        user.SubjectID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		TenantID:      user.TenantID,
		TenantType:    user.TenantType,
		Role:          role,
	}, nil
}
