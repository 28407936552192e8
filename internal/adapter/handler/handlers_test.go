package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawanraocse/gst-sense/internal/domain"
	"github.com/pawanraocse/gst-sense/internal/usecase"
)

// stubVerifier implements domain.TokenVerifier for handler tests.
type stubVerifier struct {
	user *domain.UserInfo
	err  error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (*domain.UserInfo, error) {
	return s.user, s.err
}

// passCache implements domain.VerifiedTokenCache without storing anything.
type passCache struct{}

func (passCache) Get(string) (*domain.UserInfo, bool) { return nil, false }
func (passCache) Set(string, *domain.UserInfo)        {}

func newValidateUsecase(v domain.TokenVerifier) *usecase.ValidateToken {
	return usecase.NewValidateToken(v, passCache{}, slog.Default())
}

func doRequest(t *testing.T, handlerFunc echo.HandlerFunc, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handlerFunc(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestValidateHandler_Success(t *testing.T) {
	h := NewValidateHandler(newValidateUsecase(&stubVerifier{user: &domain.UserInfo{
		SubjectID: "user-123",
		Email:     "jane@example.com",
		TenantID:  "tenant-9",
	}}))

	rec := doRequest(t, h.Handle, "Bearer good-token")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-123", rec.Header().Get("X-Gst-User-Id"))
	assert.Equal(t, "tenant-9", rec.Header().Get("X-Gst-Tenant-Id"))
	assert.Equal(t, "jane@example.com", rec.Header().Get("X-Gst-User-Email"))
}

func TestValidateHandler_MissingToken(t *testing.T) {
	h := NewValidateHandler(newValidateUsecase(&stubVerifier{}))

	rec := doRequest(t, h.Handle, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateHandler_MalformedAuthorization(t *testing.T) {
	h := NewValidateHandler(newValidateUsecase(&stubVerifier{}))

	rec := doRequest(t, h.Handle, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateHandler_ExpiredToken(t *testing.T) {
	h := NewValidateHandler(newValidateUsecase(&stubVerifier{err: domain.ErrTokenExpired}))

	rec := doRequest(t, h.Handle, "Bearer stale-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Gst-User-Id"))
}

func TestValidateHandler_VerifierOutage(t *testing.T) {
	h := NewValidateHandler(newValidateUsecase(&stubVerifier{err: domain.ErrJWKSUnavailable}))

	rec := doRequest(t, h.Handle, "Bearer good-token")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSessionHandler_Success(t *testing.T) {
	validate := newValidateUsecase(&stubVerifier{user: &domain.UserInfo{
		SubjectID:     "user-123",
		Email:         "jane@example.com",
		EmailVerified: true,
		TenantID:      "tenant-9",
		TenantType:    "organization",
		Role:          "admin",
	}})
	h := NewSessionHandler(usecase.NewGetIdentity(validate, slog.Default()))

	rec := doRequest(t, h.Handle, "Bearer good-token")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK   bool `json:"ok"`
		User struct {
			ID         string `json:"id"`
			Email      string `json:"email"`
			TenantID   string `json:"tenantId"`
			TenantType string `json:"tenantType"`
			Role       string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "user-123", resp.User.ID)
	assert.Equal(t, "organization", resp.User.TenantType)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestSessionHandler_MissingToken(t *testing.T) {
	h := NewSessionHandler(usecase.NewGetIdentity(newValidateUsecase(&stubVerifier{}), slog.Default()))

	rec := doRequest(t, h.Handle, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConfigHandler(t *testing.T) {
	h := NewConfigHandler(IdentityConfig{
		UserPoolID: "ap-south-1_AbCdEf",
		ClientID:   "client-abc",
		Region:     "ap-south-1",
		Domain:     "auth.gst-sense.example.com",
	})

	rec := doRequest(t, h.Handle, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg IdentityConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "ap-south-1_AbCdEf", cfg.UserPoolID)
	assert.Equal(t, "client-abc", cfg.ClientID)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("gst-sense-gateway")

	rec := doRequest(t, h.Handle, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "gst-sense-gateway", body["service"])
}
