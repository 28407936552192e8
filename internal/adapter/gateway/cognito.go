// Package gateway adapts the external identity provider to the domain
// ports. The provider speaks the AWS JSON 1.1 protocol; requests are plain
// HTTP POSTs dispatched by X-Amz-Target action name.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

const (
	targetPrefix = "AWSCognitoIdentityProviderService."
	contentType  = "application/x-amz-json-1.1"

	// Credentials within this window of expiry are refreshed before use.
	defaultExpirySkew = 2 * time.Minute
)

// CognitoConfig configures the identity-provider gateway.
type CognitoConfig struct {
	Region       string
	ClientID     string
	HostedDomain string
	RedirectURI  string

	// Endpoint overrides the regional endpoint; used by tests.
	Endpoint   string
	Timeout    time.Duration
	ExpirySkew time.Duration

	// StartRedirect launches the browser hand-off for federated login.
	// When nil, SignInWithRedirect fails and callers fall back to manual
	// URL construction.
	StartRedirect func(ctx context.Context, authorizeURL string) error
}

// storedTokens is the provider-owned credential set for the current
// session.
type storedTokens struct {
	idToken      string
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	claims       domain.IdentityClaims
}

// CognitoGateway implements domain.IdentityProvider against the provider's
// HTTP API, holding the current token set in memory and refreshing it
// silently on fetch.
type CognitoGateway struct {
	cfg        CognitoConfig
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.Mutex
	tokens *storedTokens

	// Concurrent silent refreshes collapse into one provider call.
	refreshGroup singleflight.Group
}

// NewCognitoGateway creates a gateway with tuned HTTP transport.
func NewCognitoGateway(cfg CognitoConfig, logger *slog.Logger) *CognitoGateway {
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/", cfg.Region)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ExpirySkew == 0 {
		cfg.ExpirySkew = defaultExpirySkew
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &CognitoGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// authResult is the provider's authentication response payload.
type authResult struct {
	AuthenticationResult *struct {
		IdToken      string `json:"IdToken"`
		AccessToken  string `json:"AccessToken"`
		RefreshToken string `json:"RefreshToken"`
		ExpiresIn    int    `json:"ExpiresIn"`
	} `json:"AuthenticationResult"`
	ChallengeName string `json:"ChallengeName"`
}

// SignIn authenticates with username and password. A challenge response
// (e.g. NEW_PASSWORD_REQUIRED) yields SignedIn == false with the challenge
// name set.
func (g *CognitoGateway) SignIn(ctx context.Context, username, password string) (*domain.SignInResult, error) {
	var result authResult
	err := g.call(ctx, "InitiateAuth", map[string]any{
		"AuthFlow": "USER_PASSWORD_AUTH",
		"ClientId": g.cfg.ClientID,
		"AuthParameters": map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	}, &result)
	if err != nil {
		return nil, err
	}

	if result.ChallengeName != "" {
		return &domain.SignInResult{SignedIn: false, ChallengeName: result.ChallengeName}, nil
	}
	if result.AuthenticationResult == nil {
		return nil, fmt.Errorf("%w: empty authentication result", domain.ErrProviderUnavailable)
	}

	if err := g.storeTokens(result, ""); err != nil {
		return nil, err
	}
	return &domain.SignInResult{SignedIn: true}, nil
}

// FetchSession returns the current token set, silently refreshing it when
// it is within the expiry skew. Fails with ErrNoCredential when no session
// exists.
func (g *CognitoGateway) FetchSession(ctx context.Context) (*domain.TokenSet, error) {
	g.mu.Lock()
	tokens := g.tokens
	g.mu.Unlock()

	if tokens == nil {
		return nil, domain.ErrNoCredential
	}

	if time.Until(tokens.expiresAt) < g.cfg.ExpirySkew {
		if tokens.refreshToken == "" {
			return nil, domain.ErrTokenExpired
		}
		if err := g.refresh(ctx, tokens.refreshToken); err != nil {
			return nil, err
		}
		g.mu.Lock()
		tokens = g.tokens
		g.mu.Unlock()
		if tokens == nil {
			return nil, domain.ErrNoCredential
		}
	}

	return &domain.TokenSet{
		IDToken:     tokens.idToken,
		AccessToken: tokens.accessToken,
		Claims:      tokens.claims,
		ExpiresAt:   tokens.expiresAt,
	}, nil
}

// GetCurrentUser returns the subject of the current session, or fails if
// none exists.
func (g *CognitoGateway) GetCurrentUser(ctx context.Context) (string, error) {
	tokens, err := g.FetchSession(ctx)
	if err != nil {
		return "", err
	}
	if tokens.Claims.Subject == "" {
		return "", domain.ErrNotAuthenticated
	}
	return tokens.Claims.Subject, nil
}

// SignInWithRedirect starts the browser hand-off for federated login via
// the provider's hosted UI.
func (g *CognitoGateway) SignInWithRedirect(ctx context.Context, provider string) error {
	if g.cfg.StartRedirect == nil {
		return fmt.Errorf("%w: no redirect starter configured", domain.ErrProviderUnavailable)
	}
	authorizeURL := fmt.Sprintf(
		"https://%s/oauth2/authorize?identity_provider=%s&response_type=code&client_id=%s&redirect_uri=%s&scope=openid+email+profile",
		g.cfg.HostedDomain, provider, g.cfg.ClientID, g.cfg.RedirectURI)
	return g.cfg.StartRedirect(ctx, authorizeURL)
}

// SignOut revokes the current session with the provider and discards the
// stored tokens. Local state clears even when revocation fails.
func (g *CognitoGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	tokens := g.tokens
	g.tokens = nil
	g.mu.Unlock()

	if tokens == nil || tokens.accessToken == "" {
		return nil
	}
	return g.call(ctx, "GlobalSignOut", map[string]any{
		"AccessToken": tokens.accessToken,
	}, nil)
}

// ResendSignUpCode requests a fresh confirmation code for an unverified
// account.
func (g *CognitoGateway) ResendSignUpCode(ctx context.Context, username string) error {
	return g.call(ctx, "ResendConfirmationCode", map[string]any{
		"ClientId": g.cfg.ClientID,
		"Username": username,
	}, nil)
}

// ConfirmSignUp confirms a newly registered account.
func (g *CognitoGateway) ConfirmSignUp(ctx context.Context, username, code string) error {
	return g.call(ctx, "ConfirmSignUp", map[string]any{
		"ClientId":         g.cfg.ClientID,
		"Username":         username,
		"ConfirmationCode": code,
	}, nil)
}

// ResetPassword starts the forgot-password flow.
func (g *CognitoGateway) ResetPassword(ctx context.Context, username string) error {
	return g.call(ctx, "ForgotPassword", map[string]any{
		"ClientId": g.cfg.ClientID,
		"Username": username,
	}, nil)
}

// ConfirmResetPassword completes the forgot-password flow.
func (g *CognitoGateway) ConfirmResetPassword(ctx context.Context, username, code, newPassword string) error {
	return g.call(ctx, "ConfirmForgotPassword", map[string]any{
		"ClientId":         g.cfg.ClientID,
		"Username":         username,
		"ConfirmationCode": code,
		"Password":         newPassword,
	}, nil)
}

// TokenSnapshot is the persistable credential state, used by clients that
// keep a session across process restarts.
type TokenSnapshot struct {
	IDToken      string    `json:"idToken"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Export returns the current credential state, or false when no session
// exists.
func (g *CognitoGateway) Export() (*TokenSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tokens == nil {
		return nil, false
	}
	return &TokenSnapshot{
		IDToken:      g.tokens.idToken,
		AccessToken:  g.tokens.accessToken,
		RefreshToken: g.tokens.refreshToken,
		ExpiresAt:    g.tokens.expiresAt,
	}, true
}

// Restore installs a previously exported credential state, re-decoding the
// identity claims from the stored token.
func (g *CognitoGateway) Restore(snap TokenSnapshot) error {
	claims, err := decodeIdentityClaims(snap.IDToken)
	if err != nil {
		return fmt.Errorf("decoding identity token: %w", err)
	}

	g.mu.Lock()
	g.tokens = &storedTokens{
		idToken:      snap.IDToken,
		accessToken:  snap.AccessToken,
		refreshToken: snap.RefreshToken,
		expiresAt:    snap.ExpiresAt,
		claims:       claims,
	}
	g.mu.Unlock()
	return nil
}

// refresh exchanges the refresh token for fresh credentials. Overlapping
// callers share one exchange.
func (g *CognitoGateway) refresh(ctx context.Context, refreshToken string) error {
	_, err, _ := g.refreshGroup.Do("refresh", func() (any, error) {
		// A caller that raced a just-completed refresh skips the exchange.
		g.mu.Lock()
		fresh := g.tokens != nil && time.Until(g.tokens.expiresAt) >= g.cfg.ExpirySkew
		g.mu.Unlock()
		if fresh {
			return nil, nil
		}

		var result authResult
		err := g.call(ctx, "InitiateAuth", map[string]any{
			"AuthFlow": "REFRESH_TOKEN_AUTH",
			"ClientId": g.cfg.ClientID,
			"AuthParameters": map[string]string{
				"REFRESH_TOKEN": refreshToken,
			},
		}, &result)
		if err != nil {
			g.logger.WarnContext(ctx, "silent token refresh failed", "error", err)
			g.mu.Lock()
			g.tokens = nil
			g.mu.Unlock()
			return nil, err
		}
		if result.AuthenticationResult == nil {
			return nil, fmt.Errorf("%w: empty refresh result", domain.ErrProviderUnavailable)
		}
		// Refresh responses omit the refresh token; keep the current one.
		return nil, g.storeTokens(result, refreshToken)
	})
	return err
}

func (g *CognitoGateway) storeTokens(result authResult, previousRefreshToken string) error {
	ar := result.AuthenticationResult
	claims, err := decodeIdentityClaims(ar.IdToken)
	if err != nil {
		return fmt.Errorf("decoding identity token: %w", err)
	}

	refreshToken := ar.RefreshToken
	if refreshToken == "" {
		refreshToken = previousRefreshToken
	}

	g.mu.Lock()
	g.tokens = &storedTokens{
		idToken:      ar.IdToken,
		accessToken:  ar.AccessToken,
		refreshToken: refreshToken,
		expiresAt:    time.Now().Add(time.Duration(ar.ExpiresIn) * time.Second),
		claims:       claims,
	}
	g.mu.Unlock()
	return nil
}

// call POSTs an action to the provider and decodes the response into out.
// Provider failures surface as *domain.ProviderError carrying the
// provider's exception name for classification.
func (g *CognitoGateway) call(ctx context.Context, action string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Amz-Target", targetPrefix+action)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", action, err)
	}

	if resp.StatusCode != http.StatusOK {
		return providerErrorFromBody(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", action, err)
		}
	}
	return nil
}

// providerErrorBody is the provider's error payload.
type providerErrorBody struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

func providerErrorFromBody(status int, body []byte) error {
	var eb providerErrorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Type == "" {
		if status >= http.StatusInternalServerError {
			return fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, status)
		}
		return &domain.ProviderError{Name: "UnknownException", Message: string(body)}
	}

	// The exception name may carry a namespace prefix ("ns#Name").
	name := eb.Type
	if i := strings.LastIndex(name, "#"); i >= 0 {
		name = name[i+1:]
	}
	return &domain.ProviderError{Name: name, Message: eb.Message}
}

// decodeIdentityClaims extracts the identity claims from the raw token.
// The token is provider-issued over TLS; signature verification happens
// server-side in the gateway's token verifier, not here.
func decodeIdentityClaims(rawToken string) (domain.IdentityClaims, error) {
	var claims jwt.MapClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(rawToken, &claims); err != nil {
		return domain.IdentityClaims{}, err
	}

	str := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}

	tenantType := str("custom:tenant_type")
	if tenantType == "" {
		// Some pool configurations expose the claim without the vendor
		// prefix.
		tenantType = str("tenant_type")
	}

	emailVerified := false
	switch v := claims["email_verified"].(type) {
	case bool:
		emailVerified = v
	case string:
		emailVerified = v == "true"
	}

	return domain.IdentityClaims{
		Subject:       str("sub"),
		Email:         str("email"),
		EmailVerified: emailVerified,
		TenantType:    tenantType,
		TenantID:      str("custom:tenantId"),
		Role:          str("custom:role"),
	}, nil
}

var _ domain.IdentityProvider = (*CognitoGateway)(nil)
