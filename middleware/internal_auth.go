package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// InternalAuthHeader carries the shared secret on service-to-service calls
// from the GST ledger and platform backends.
const InternalAuthHeader = "X-Gst-Internal-Auth"

// InternalAuth validates the shared secret on /internal endpoints. Secrets
// are compared in constant time; more than one may be accepted so the
// secret can be rotated without a coordinated deploy.
func InternalAuth(secrets ...string) echo.MiddlewareFunc {
	accepted := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			accepted = append(accepted, []byte(s))
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided := []byte(c.Request().Header.Get(InternalAuthHeader))
			if len(provided) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing internal auth header")
			}
			for _, secret := range accepted {
				if subtle.ConstantTimeCompare(provided, secret) == 1 {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "invalid internal auth")
		}
	}
}
