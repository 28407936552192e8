package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// ValidateToken orchestrates bearer-token validation with a cache-through
// strategy over the pool verifier.
type ValidateToken struct {
	verifier domain.TokenVerifier
	cache    domain.VerifiedTokenCache
	logger   *slog.Logger
}

// NewValidateToken creates a new ValidateToken usecase.
func NewValidateToken(v domain.TokenVerifier, c domain.VerifiedTokenCache, l *slog.Logger) *ValidateToken {
	return &ValidateToken{verifier: v, cache: c, logger: l}
}

// Execute validates the raw bearer token and returns the identity it
// asserts. Tokens are cached by digest, never by value.
func (uc *ValidateToken) Execute(ctx context.Context, rawToken string) (*domain.UserInfo, error) {
	if rawToken == "" {
		return nil, domain.ErrNoToken
	}

	key := tokenDigest(rawToken)
	if cached, found := uc.cache.Get(key); found {
		return cached, nil
	}

	user, err := uc.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(key, user)
	return user, nil
}

func tokenDigest(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
