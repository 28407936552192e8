package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawanraocse/gst-sense/internal/usecase"
)

// SessionHandler handles /session, returning the verified identity as
// JSON for the application shell.
type SessionHandler struct {
	uc *usecase.GetIdentity
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(uc *usecase.GetIdentity) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// sessionUser represents the user object in the response.
type sessionUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	TenantID      string `json:"tenantId,omitempty"`
	TenantType    string `json:"tenantType,omitempty"`
	Role          string `json:"role"`
}

// sessionResponse represents the JSON response structure.
type sessionResponse struct {
	OK   bool        `json:"ok"`
	User sessionUser `json:"user"`
}

// Handle processes the /session endpoint and returns JSON.
func (h *SessionHandler) Handle(c echo.Context) error {
	rawToken, ok := bearerToken(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "bearer token not found")
	}

	result, err := h.uc.Execute(c.Request().Context(), rawToken)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, sessionResponse{
		OK: true,
		User: sessionUser{
			ID:            result.UserID,
			Email:         result.Email,
			EmailVerified: result.EmailVerified,
			TenantID:      result.TenantID,
			TenantType:    result.TenantType,
			Role:          result.Role,
		},
	})
}
