package domain

import "context"

// TokenSource yields the current credential, refreshing it silently when
// the provider supports it. FetchSession fails when no session exists.
type TokenSource interface {
	GetCurrentUser(ctx context.Context) (string, error)
	FetchSession(ctx context.Context) (*TokenSet, error)
}

// IdentityProvider is the full account-lifecycle surface of the external
// identity provider.
type IdentityProvider interface {
	TokenSource

	SignIn(ctx context.Context, username, password string) (*SignInResult, error)
	SignInWithRedirect(ctx context.Context, provider string) error
	SignOut(ctx context.Context) error

	ResendSignUpCode(ctx context.Context, username string) error
	ConfirmSignUp(ctx context.Context, username, code string) error
	ResetPassword(ctx context.Context, username string) error
	ConfirmResetPassword(ctx context.Context, username, code, newPassword string) error
}

// SessionChecker reports whether a valid authenticated identity exists,
// consulting the identity provider. Never returns an error; all failures
// normalize to false.
type SessionChecker interface {
	CheckSession(ctx context.Context) bool
}

// Navigator commits a navigation to the given route. Implementations must
// tolerate being called from any goroutine.
type Navigator interface {
	NavigateTo(route string)
}

// TokenVerifier verifies a raw bearer identity token and returns the
// identity it asserts.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*UserInfo, error)
}

// VerifiedTokenCache stores recently verified identities keyed by token
// digest, bounding verification cost on hot paths.
type VerifiedTokenCache interface {
	Get(key string) (*UserInfo, bool)
	Set(key string, user *UserInfo)
}
