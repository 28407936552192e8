package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// IdentityConfig is the identity provider's public client configuration,
// served to front-ends at startup so pool details never ship in built
// assets.
type IdentityConfig struct {
	UserPoolID string `json:"userPoolId"`
	ClientID   string `json:"clientId"`
	Region     string `json:"region"`
	Domain     string `json:"domain"`
}

// ConfigHandler serves /api/config/cognito.
type ConfigHandler struct {
	cfg IdentityConfig
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(cfg IdentityConfig) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// Handle processes the /api/config/cognito endpoint.
func (h *ConfigHandler) Handle(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cfg)
}
