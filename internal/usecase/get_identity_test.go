package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

func TestGetIdentity_ShapesResult(t *testing.T) {
	verifier := &mockVerifier{user: &domain.UserInfo{
		SubjectID:     "user-123",
		Email:         "jane@example.com",
		EmailVerified: true,
		TenantID:      "tenant-9",
		TenantType:    "organization",
		Role:          "admin",
	}}
	uc := NewGetIdentity(NewValidateToken(verifier, newMockCache(), slog.Default()), slog.Default())

	result, err := uc.Execute(context.Background(), "raw-token")

	assert.NoError(t, err)
	assert.Equal(t, "user-123", result.UserID)
	assert.Equal(t, "jane@example.com", result.Email)
	assert.True(t, result.EmailVerified)
	assert.Equal(t, "tenant-9", result.TenantID)
	assert.Equal(t, "organization", result.TenantType)
	assert.Equal(t, "admin", result.Role)
}

func TestGetIdentity_DefaultRole(t *testing.T) {
	verifier := &mockVerifier{user: &domain.UserInfo{SubjectID: "user-123"}}
	uc := NewGetIdentity(NewValidateToken(verifier, newMockCache(), slog.Default()), slog.Default())

	result, err := uc.Execute(context.Background(), "raw-token")

	assert.NoError(t, err)
	assert.Equal(t, "user", result.Role)
}

func TestGetIdentity_ValidationFailurePropagates(t *testing.T) {
	verifier := &mockVerifier{err: domain.ErrTokenExpired}
	uc := NewGetIdentity(NewValidateToken(verifier, newMockCache(), slog.Default()), slog.Default())

	_, err := uc.Execute(context.Background(), "raw-token")
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
