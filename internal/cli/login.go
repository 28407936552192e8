package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/term"

	"github.com/pawanraocse/gst-sense/internal/adapter/gateway"
	"github.com/pawanraocse/gst-sense/internal/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the platform",
	Long: `Sign in with email and password, or through a federated identity
provider with --provider. Federated sign-in opens the provider's hosted
page in your browser and completes through a local callback listener.

Examples:
  gstsense login --email jane@example.com
  gstsense login --provider Google`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("email", "", "sign-in email")
	loginCmd.Flags().String("password", "", "password (prompted when omitted)")
	loginCmd.Flags().String("provider", "", "federated identity provider (e.g. Google)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}

	provider, _ := cmd.Flags().GetString("provider")
	if provider != "" {
		return runFederatedLogin(ctx, app, provider)
	}

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	result, err := app.flow.Login(ctx, email, password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			if authErr.Kind == domain.KindUserNotConfirmed {
				printer.Warning("%s", authErr.Message())
				printer.Info("run 'gstsense confirm --email %s --code <code>' after checking your inbox", email)
				return nil
			}
			printer.Error("%s", authErr.Message())
			return errors.New("sign-in failed")
		}
		return err
	}

	if !result.SignedIn {
		printer.Warning("sign-in requires an additional step: %s", result.ChallengeName)
		return nil
	}

	if err := app.persistSession(); err != nil {
		return err
	}
	printer.Success("signed in as %s", email)
	return nil
}

// runFederatedLogin drives the browser hand-off: a local listener receives
// the authorization code, which is exchanged for tokens at the hosted
// domain.
func runFederatedLogin(ctx context.Context, app *app, provider string) error {
	if app.identity.HostedDomain == "" {
		return fmt.Errorf("federated sign-in requires cognito.domain to be configured")
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("starting callback listener: %w", err)
	}
	defer listener.Close()

	redirectURI := fmt.Sprintf("http://%s/callback", listener.Addr().String())
	oauthCfg := oauth2.Config{
		ClientID:    app.identity.ClientID,
		RedirectURL: redirectURI,
		Scopes:      []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("https://%s/oauth2/authorize", app.identity.HostedDomain),
			TokenURL: fmt.Sprintf("https://%s/oauth2/token", app.identity.HostedDomain),
		},
	}

	codeCh := make(chan string, 1)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Signed in. You can close this window and return to the terminal.")
		select {
		case codeCh <- code:
		default:
		}
	})}
	go func() { _ = server.Serve(listener) }()
	defer server.Close()

	authURL := oauthCfg.AuthCodeURL("", oauth2.SetAuthURLParam("identity_provider", provider))
	printer.Info("Open this URL in your browser to continue:\n\n  %s\n", authURL)

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	var code string
	select {
	case code = <-codeCh:
	case <-waitCtx.Done():
		return fmt.Errorf("timed out waiting for the browser callback")
	}

	token, err := oauthCfg.Exchange(waitCtx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return fmt.Errorf("token response carried no identity token")
	}

	if err := app.gateway.Restore(gatewaySnapshot(idToken, token)); err != nil {
		return fmt.Errorf("installing session: %w", err)
	}
	if !app.sessions.CheckSession(ctx) {
		return fmt.Errorf("session verification failed after federated sign-in")
	}
	if err := app.persistSession(); err != nil {
		return err
	}

	if identity, ok := app.sessions.Identity(); ok {
		printer.Success("signed in as %s via %s", identity.Email, provider)
	} else {
		printer.Success("signed in via %s", provider)
	}
	return nil
}

func gatewaySnapshot(idToken string, token *oauth2.Token) gateway.TokenSnapshot {
	return gateway.TokenSnapshot{
		IDToken:      idToken,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}
