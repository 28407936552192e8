package domain

import "time"

// UserInfo is the decoded identity of the currently signed-in user.
// TenantType distinguishes personal accounts from organization members;
// TenantID and Role are present only when the identity token carries them.
type UserInfo struct {
	SubjectID     string
	Email         string
	EmailVerified bool
	TenantType    string
	TenantID      string
	Role          string
}

// TokenSet holds the credentials returned by the identity provider for the
// current session. IDToken is the raw compact JWT attached to outgoing
// requests; Claims is its decoded payload.
type TokenSet struct {
	IDToken     string
	AccessToken string
	Claims      IdentityClaims
	ExpiresAt   time.Time
}

// IdentityClaims is the subset of identity-token claims the application
// depends on. TenantType is resolved from the vendor-prefixed custom claim
// with the bare claim name as fallback.
type IdentityClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	TenantType    string
	TenantID      string
	Role          string
}

// SignInResult distinguishes a completed sign-in from an in-progress
// challenge (e.g. a forced password change).
type SignInResult struct {
	SignedIn      bool
	ChallengeName string
}

// PendingNavigation carries the originally requested URL through a
// redirect-to-login round trip.
type PendingNavigation struct {
	TargetURL string
}
