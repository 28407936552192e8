// Package token verifies identity tokens issued by the user pool.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// VerifierConfig holds token verification configuration.
type VerifierConfig struct {
	Region     string
	UserPoolID string
	ClientID   string

	// JWKSURL overrides the pool's derived key-set URL; used by tests.
	JWKSURL string
	// Issuer overrides the pool's derived issuer; used by tests.
	Issuer string

	RefreshInterval time.Duration
}

// identityClaims is the identity-token claim set issued by the pool.
type identityClaims struct {
	jwt.RegisteredClaims
	TokenUse        string `json:"token_use"`
	Email           string `json:"email"`
	EmailVerified   bool   `json:"email_verified"`
	TenantType      string `json:"custom:tenant_type"`
	TenantTypeAlias string `json:"tenant_type"`
	TenantID        string `json:"custom:tenantId"`
	Role            string `json:"custom:role"`
}

// Verifier validates pool-issued identity tokens against the pool's
// published key set. Implements domain.TokenVerifier.
type Verifier struct {
	cfg       VerifierConfig
	issuer    string
	jwksURL   string
	jwksCache *jwk.Cache
}

// NewVerifier creates a verifier with an auto-refreshing key-set cache.
func NewVerifier(ctx context.Context, cfg VerifierConfig) (*Verifier, error) {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.Region, cfg.UserPoolID)
	}
	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = issuer + "/.well-known/jwks.json"
	}

	refreshInterval := cfg.RefreshInterval
	if refreshInterval < 15*time.Minute {
		refreshInterval = 15 * time.Minute
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(refreshInterval)); err != nil {
		return nil, fmt.Errorf("registering key-set cache: %w", err)
	}

	return &Verifier{
		cfg:       cfg,
		issuer:    issuer,
		jwksURL:   jwksURL,
		jwksCache: cache,
	}, nil
}

// Verify checks the token's signature and claims and returns the user it
// identifies. Expired tokens fail with ErrTokenExpired; everything else
// invalid fails with ErrTokenInvalid.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*domain.UserInfo, error) {
	token, err := jwt.ParseWithClaims(rawToken, &identityClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing kid in token header")
		}

		keySet, err := v.jwksCache.Get(ctx, v.jwksURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrJWKSUnavailable, err)
		}

		key, found := keySet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("key %s not found in key set", kid)
		}

		var rawKey any
		if err := key.Raw(&rawKey); err != nil {
			return nil, fmt.Errorf("extracting raw key: %w", err)
		}
		return rawKey, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.cfg.ClientID),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.TokenUse != "id" {
		return nil, fmt.Errorf("%w: token_use %q is not an identity token", domain.ErrTokenInvalid, claims.TokenUse)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}

	tenantType := claims.TenantType
	if tenantType == "" {
		tenantType = claims.TenantTypeAlias
	}

	return &domain.UserInfo{
		SubjectID:     claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		TenantType:    tenantType,
		TenantID:      claims.TenantID,
		Role:          claims.Role,
	}, nil
}

var _ domain.TokenVerifier = (*Verifier)(nil)
