// Package transport provides the HTTP round-trippers that sit between the
// application and the backend gateway: credential attachment on the way
// out, authorization-failure reaction on the way back.
package transport

import (
	"log/slog"
	"net/http"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// Authorizer attaches the current identity token to every outgoing request
// just before send. The identity token (not the narrower access token) is
// used because downstream tenant routing depends on custom claims carried
// only in the identity token.
type Authorizer struct {
	base   http.RoundTripper
	tokens domain.TokenSource
	logger *slog.Logger
}

// NewAuthorizer wraps base with bearer-credential attachment. A nil base
// uses http.DefaultTransport.
func NewAuthorizer(base http.RoundTripper, tokens domain.TokenSource, logger *slog.Logger) *Authorizer {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{base: base, tokens: tokens, logger: logger}
}

// RoundTrip fetches the current credential (which may itself perform a
// silent refresh) and forwards a clone of the request carrying it. If no
// credential is available the request proceeds unmodified, letting the
// backend reject it and the failure classifier react.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	tokens, err := a.tokens.FetchSession(ctx)
	if err != nil || tokens == nil || tokens.IDToken == "" {
		if err != nil {
			a.logger.DebugContext(ctx, "proceeding unauthenticated", "url", req.URL.Path, "error", err)
		}
		return a.base.RoundTrip(req)
	}

	cloned := req.Clone(ctx)
	cloned.Header.Set("Authorization", "Bearer "+tokens.IDToken)
	return a.base.RoundTrip(cloned)
}
