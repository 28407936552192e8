package config

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the provider variables without which Load fails.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("COGNITO_REGION", "ap-south-1")
	t.Setenv("COGNITO_USER_POOL_ID", "ap-south-1_AbCdEf")
	t.Setenv("COGNITO_CLIENT_ID", "client-abc")
}

func TestLoad(t *testing.T) {
	t.Run("default configuration when optional env vars unset", func(t *testing.T) {
		setRequiredEnv(t)

		got, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8888", got.Port)
		assert.Equal(t, "/auth/login", got.LoginRoute)
		assert.Equal(t, "/app", got.HomeRoute)
		assert.Equal(t, "/auth/verify-email", got.VerifyEmailRoute)
		assert.Equal(t, 5*time.Minute, got.CacheTTL)
		assert.Empty(t, got.SkipRedirectURLs)
	})

	t.Run("custom configuration from environment variables", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PORT", "9999")
		t.Setenv("CACHE_TTL", "10m")
		t.Setenv("LOGIN_ROUTE", "/signin")
		t.Setenv("SKIP_REDIRECT_URLS", "/auth/api/v1/auth/me, /platform/api/v1/tenants/")

		got, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9999", got.Port)
		assert.Equal(t, 10*time.Minute, got.CacheTTL)
		assert.Equal(t, "/signin", got.LoginRoute)
		assert.Equal(t, []string{"/auth/api/v1/auth/me", "/platform/api/v1/tenants/"}, got.SkipRedirectURLs)
	})

	t.Run("invalid cache TTL format returns error", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CACHE_TTL", "invalid")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid CACHE_TTL")
	})

	t.Run("missing pool id returns error", func(t *testing.T) {
		t.Setenv("COGNITO_REGION", "ap-south-1")
		t.Setenv("COGNITO_CLIENT_ID", "client-abc")
		os.Unsetenv("COGNITO_USER_POOL_ID")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "COGNITO_USER_POOL_ID")
	})

	t.Run("secret resolved through _FILE indirection", func(t *testing.T) {
		setRequiredEnv(t)
		secretFile := filepath.Join(t.TempDir(), "secret")
		require.NoError(t, os.WriteFile(secretFile, []byte("s3cret-value\n"), 0o600))
		t.Setenv("INTERNAL_SHARED_SECRET_FILE", secretFile)

		got, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "s3cret-value", got.InternalSecret)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:              "8888",
			CacheTTL:          5 * time.Minute,
			CognitoRegion:     "ap-south-1",
			CognitoUserPoolID: "ap-south-1_AbCdEf",
			CognitoClientID:   "client-abc",
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{"valid configuration", func(c *Config) {}, false, ""},
		{"missing port", func(c *Config) { c.Port = "" }, true, "PORT"},
		{"missing region", func(c *Config) { c.CognitoRegion = "" }, true, "COGNITO_REGION"},
		{"missing client id", func(c *Config) { c.CognitoClientID = "" }, true, "COGNITO_CLIENT_ID"},
		{"zero cache TTL", func(c *Config) { c.CacheTTL = 0 }, true, "CACHE_TTL"},
		{"negative cache TTL", func(c *Config) { c.CacheTTL = -time.Minute }, true, "CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFetchIdentityConfig_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/config/cognito", r.URL.Path)
		_ = json.NewEncoder(w).Encode(IdentityConfig{
			UserPoolID: "ap-south-1_Remote",
			ClientID:   "client-remote",
			Region:     "ap-south-1",
			Domain:     "auth.remote.example.com",
		})
	}))
	defer srv.Close()

	static := &Config{CognitoUserPoolID: "static-pool", CognitoClientID: "static-client"}
	got := FetchIdentityConfig(context.Background(), srv.URL, static, slog.Default())

	assert.Equal(t, "ap-south-1_Remote", got.UserPoolID)
	assert.Equal(t, "client-remote", got.ClientID)
}

func TestFetchIdentityConfig_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
		{"incomplete payload", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(IdentityConfig{Region: "ap-south-1"})
		}},
	}

	static := &Config{
		CognitoUserPoolID: "static-pool",
		CognitoClientID:   "static-client",
		CognitoRegion:     "ap-south-1",
		CognitoDomain:     "auth.static.example.com",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got := FetchIdentityConfig(context.Background(), srv.URL, static, slog.Default())
			assert.Equal(t, "static-pool", got.UserPoolID)
			assert.Equal(t, "static-client", got.ClientID)
		})
	}
}

func TestFetchIdentityConfig_FallbackWhenUnreachable(t *testing.T) {
	static := &Config{CognitoUserPoolID: "static-pool", CognitoClientID: "static-client"}

	got := FetchIdentityConfig(context.Background(), "http://127.0.0.1:1", static, slog.Default())
	assert.Equal(t, "static-pool", got.UserPoolID)
}
