package transport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// DefaultSkipRedirectPaths are the endpoint-path substrings that must not
// trigger a login redirect on 401/403. These endpoints are called during
// the auth-check and signup flows themselves; redirecting on their failure
// would loop or bounce users performing public lookups.
var DefaultSkipRedirectPaths = []string{
	"/auth/api/v1/auth/me",
	"/auth/api/v1/auth/lookup",
	"/platform/api/v1/tenants/",
}

// Classifier observes every API response and reacts to authorization
// failures. On 401/403 outside the allow-list it triggers navigation to
// the login route; in all cases the response propagates to the caller so
// local error handling still runs. It never mutates session state.
type Classifier struct {
	base       http.RoundTripper
	navigator  domain.Navigator
	loginRoute string
	skipPaths  []string
	logger     *slog.Logger
}

// NewClassifier wraps base with authorization-failure handling. A nil
// skipPaths uses DefaultSkipRedirectPaths.
func NewClassifier(base http.RoundTripper, navigator domain.Navigator, loginRoute string, skipPaths []string, logger *slog.Logger) *Classifier {
	if base == nil {
		base = http.DefaultTransport
	}
	if skipPaths == nil {
		skipPaths = DefaultSkipRedirectPaths
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		base:       base,
		navigator:  navigator,
		loginRoute: loginRoute,
		skipPaths:  skipPaths,
		logger:     logger,
	}
}

// RoundTrip forwards the request and inspects the response status.
func (c *Classifier) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c.base.RoundTrip(req)
	if err != nil {
		// Transport fault, not an authorization failure.
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.shouldRedirect(req.URL.String()) {
			c.logger.InfoContext(req.Context(), "authorization failure, redirecting to login",
				"status", resp.StatusCode,
				"url", req.URL.Path)
			c.navigator.NavigateTo(c.loginRoute)
		}
	}

	return resp, nil
}

func (c *Classifier) shouldRedirect(url string) bool {
	for _, p := range c.skipPaths {
		if strings.Contains(url, p) {
			return false
		}
	}
	return true
}
