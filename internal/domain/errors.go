package domain

import "errors"

// Session and credential errors.
var (
	ErrNotAuthenticated = errors.New("no authenticated session")
	ErrNoCredential     = errors.New("no credential available")
	ErrTokenExpired     = errors.New("identity token expired")
	ErrTokenInvalid     = errors.New("identity token invalid")
	ErrNoToken          = errors.New("missing bearer token")
)

// External service errors.
var (
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrJWKSUnavailable     = errors.New("signing keys unavailable")
	ErrGatewayUnavailable  = errors.New("backend gateway unavailable")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ProviderError is a raw identity-provider failure carrying the provider's
// exception name (e.g. "UserNotConfirmedException"). It is classified into
// an AuthError at the boundary; UI-facing code never sees it directly.
type ProviderError struct {
	Name    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}
