package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pawanraocse/gst-sense/config"
	"github.com/pawanraocse/gst-sense/internal/adapter/gateway"
	"github.com/pawanraocse/gst-sense/internal/api"
	"github.com/pawanraocse/gst-sense/internal/flow"
	"github.com/pawanraocse/gst-sense/internal/session"
	"github.com/pawanraocse/gst-sense/internal/transport"
)

// app bundles the wired client-side stack for one command invocation.
type app struct {
	identity gateway.CognitoConfig
	gateway  *gateway.CognitoGateway
	sessions *session.State
	flow     *flow.Flow
	api      *api.Client
	store    *sessionStore
}

// routeEcho surfaces the SDK's navigation decisions as terminal hints.
type routeEcho struct{}

func (routeEcho) NavigateTo(route string) {
	printer.Info("next: %s", route)
}

// newApp wires the identity gateway, session state, login flow, and API
// client from CLI configuration. Provider details come from the gateway's
// config endpoint when reachable, with static config as fallback.
func newApp(ctx context.Context) (*app, error) {
	static := &config.Config{
		CognitoRegion:     viper.GetString("cognito.region"),
		CognitoUserPoolID: viper.GetString("cognito.user_pool_id"),
		CognitoClientID:   viper.GetString("cognito.client_id"),
		CognitoDomain:     viper.GetString("cognito.domain"),
	}
	identity := config.FetchIdentityConfig(ctx, viper.GetString("gateway_url"), static, logger)
	if identity.ClientID == "" {
		return nil, fmt.Errorf("no identity provider configured: set cognito.client_id or point gateway_url at a running gateway")
	}

	idpCfg := gateway.CognitoConfig{
		Region:       identity.Region,
		ClientID:     identity.ClientID,
		HostedDomain: identity.Domain,
		Timeout:      15 * time.Second,
	}
	idp := gateway.NewCognitoGateway(idpCfg, logger)

	store, err := newSessionStore()
	if err != nil {
		return nil, err
	}
	if snap, ok := store.Load(); ok {
		if err := idp.Restore(*snap); err != nil {
			logger.Debug("discarding unreadable stored session", "error", err)
			_ = store.Clear()
		}
	}

	sessions := session.New(idp, logger)
	nav := routeEcho{}
	loginFlow := flow.New(idp, sessions, nav, flow.Routes{
		Login:       "auth login",
		Home:        "whoami",
		VerifyEmail: "auth confirm",
	}, flow.FallbackConfig{
		Domain:      identity.Domain,
		ClientID:    identity.ClientID,
		RedirectURI: viper.GetString("oauth.redirect_uri"),
	}, logger)

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: transport.NewClassifier(
			transport.NewAuthorizer(http.DefaultTransport, idp, logger),
			nav, "auth login", viper.GetStringSlice("skip_redirect_urls"), logger),
	}
	apiClient := api.NewClient(viper.GetString("api_url"), httpClient, logger)

	return &app{
		identity: idpCfg,
		gateway:  idp,
		sessions: sessions,
		flow:     loginFlow,
		api:      apiClient,
		store:    store,
	}, nil
}

// persistSession saves the gateway's current credential state.
func (a *app) persistSession() error {
	snap, ok := a.gateway.Export()
	if !ok {
		return a.store.Clear()
	}
	return a.store.Save(snap)
}
