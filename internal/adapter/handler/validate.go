package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pawanraocse/gst-sense/internal/usecase"
)

// ValidateHandler handles /validate for nginx auth_request style
// front-door checks.
type ValidateHandler struct {
	uc *usecase.ValidateToken
}

// NewValidateHandler creates a new validate handler.
func NewValidateHandler(uc *usecase.ValidateToken) *ValidateHandler {
	return &ValidateHandler{uc: uc}
}

// Handle processes the /validate endpoint. On success the verified
// identity is exposed to the upstream via response headers.
func (h *ValidateHandler) Handle(c echo.Context) error {
	rawToken, ok := bearerToken(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "bearer token not found")
	}

	user, err := h.uc.Execute(c.Request().Context(), rawToken)
	if err != nil {
		return mapDomainError(err)
	}

	header := c.Response().Header()
	header.Set("X-Gst-User-Id", user.SubjectID)
	header.Set("X-Gst-Tenant-Id", user.TenantID)
	header.Set("X-Gst-User-Email", user.Email)
	return c.NoContent(http.StatusNoContent)
}

// bearerToken extracts the bearer credential from the Authorization
// header.
func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	return auth[len(prefix):], true
}
