// Package flow orchestrates the sign-in, sign-out and account lifecycle
// flows against the identity provider, mutating session state and driving
// navigation on their outcomes.
package flow

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// Routes are the navigation targets the flows commit to.
type Routes struct {
	Login       string
	Home        string
	VerifyEmail string
}

// sessionState is the slice of session.State the flows need.
type sessionState interface {
	domain.SessionChecker
	Clear()
}

// Flow runs the authentication flows. Construct one per application with
// the shared session state and navigator.
type Flow struct {
	provider domain.IdentityProvider
	sessions sessionState
	nav      domain.Navigator
	routes   Routes
	fallback FallbackConfig
	logger   *slog.Logger
}

// New creates a Flow.
func New(provider domain.IdentityProvider, sessions sessionState, nav domain.Navigator, routes Routes, fallback FallbackConfig, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{
		provider: provider,
		sessions: sessions,
		nav:      nav,
		routes:   routes,
		fallback: fallback,
		logger:   logger,
	}
}

// Login signs in with email and password. A completed sign-in refreshes
// session state and navigates to the authenticated area. An unconfirmed
// account navigates to the verification flow with the email attached
// instead of surfacing a generic error. Challenge results (e.g. forced
// password change) are returned to the caller unhandled.
func (f *Flow) Login(ctx context.Context, email, password string) (*domain.SignInResult, error) {
	result, err := f.provider.SignIn(ctx, email, password)
	if err != nil {
		classified := domain.Classify(err)
		if classified.Kind == domain.KindUserNotConfirmed {
			f.logger.InfoContext(ctx, "sign-in attempted before verification", "email", email)
			f.nav.NavigateTo(f.routes.VerifyEmail + "?email=" + url.QueryEscape(email))
			return nil, classified
		}
		f.logger.WarnContext(ctx, "sign-in failed", "kind", classified.Kind.String())
		return nil, classified
	}

	if result.SignedIn {
		if f.sessions.CheckSession(ctx) {
			f.nav.NavigateTo(f.routes.Home)
		}
	}
	return result, nil
}

// Logout signs out of the provider, clears session state and navigates to
// the login route. Provider failures are tolerated; local state always
// clears.
func (f *Flow) Logout(ctx context.Context) {
	if err := f.provider.SignOut(ctx); err != nil {
		f.logger.WarnContext(ctx, "provider sign-out failed", "error", err)
	}
	f.sessions.Clear()
	f.nav.NavigateTo(f.routes.Login)
}

// ResendVerificationEmail requests a fresh sign-up confirmation code.
func (f *Flow) ResendVerificationEmail(ctx context.Context, email string) error {
	if err := f.provider.ResendSignUpCode(ctx, email); err != nil {
		return domain.Classify(err)
	}
	return nil
}

// ConfirmSignUp confirms a newly registered account with the emailed code.
func (f *Flow) ConfirmSignUp(ctx context.Context, email, code string) error {
	if err := f.provider.ConfirmSignUp(ctx, email, code); err != nil {
		return domain.Classify(err)
	}
	return nil
}

// ForgotPassword starts the password reset flow.
func (f *Flow) ForgotPassword(ctx context.Context, email string) error {
	if err := f.provider.ResetPassword(ctx, email); err != nil {
		return domain.Classify(err)
	}
	return nil
}

// ConfirmForgotPassword completes the password reset flow.
func (f *Flow) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	if err := f.provider.ConfirmResetPassword(ctx, email, code, newPassword); err != nil {
		return domain.Classify(err)
	}
	return nil
}
