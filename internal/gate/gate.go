// Package gate decides, per navigation attempt, whether a route requiring
// authentication (or requiring anonymity) may proceed.
package gate

import (
	"context"
	"net/url"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// ReturnURLParam is the query parameter carrying the originally requested
// URL through a redirect-to-login round trip.
const ReturnURLParam = "returnUrl"

// Decision is the terminal outcome of a navigation attempt: either the
// navigation commits, or it is replaced by a redirect. A denied navigation
// requires a fresh user-initiated attempt.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Gate holds the pair of navigation guards. Guards only read session
// state (via the session check itself); they never mutate it.
type Gate struct {
	sessions   domain.SessionChecker
	loginRoute string
	homeRoute  string
}

// New creates a route gate redirecting denied authenticated-area
// navigations to loginRoute and denied guest-area navigations to homeRoute.
func New(sessions domain.SessionChecker, loginRoute, homeRoute string) *Gate {
	return &Gate{sessions: sessions, loginRoute: loginRoute, homeRoute: homeRoute}
}

// AuthGuard gates entry into the authenticated area. An unauthenticated
// session is redirected to the login route with the originally requested
// URL preserved as a return-path parameter.
func (g *Gate) AuthGuard(ctx context.Context, targetURL string) Decision {
	if g.sessions.CheckSession(ctx) {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: g.loginRedirect(targetURL)}
}

// GuestGuard gates entry into routes reserved for unauthenticated users
// (login, signup, password reset). An already-authenticated session is
// redirected into the authenticated area.
func (g *Gate) GuestGuard(ctx context.Context, _ string) Decision {
	if g.sessions.CheckSession(ctx) {
		return Decision{RedirectTo: g.homeRoute}
	}
	return Decision{Allowed: true}
}

func (g *Gate) loginRedirect(targetURL string) string {
	if targetURL == "" {
		return g.loginRoute
	}
	return g.loginRoute + "?" + ReturnURLParam + "=" + url.QueryEscape(targetURL)
}

// ConsumeReturnURL extracts the pending navigation intent from a login
// route URL, if one was carried through the redirect.
func ConsumeReturnURL(loginURL string) (domain.PendingNavigation, bool) {
	u, err := url.Parse(loginURL)
	if err != nil {
		return domain.PendingNavigation{}, false
	}
	target := u.Query().Get(ReturnURLParam)
	if target == "" {
		return domain.PendingNavigation{}, false
	}
	return domain.PendingNavigation{TargetURL: target}, true
}
