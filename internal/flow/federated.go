package flow

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// FallbackConfig holds the identity-provider parameters needed to
// construct an authorization-code URL by hand when the provider's own
// redirect initiation fails.
type FallbackConfig struct {
	Domain      string
	ClientID    string
	RedirectURI string
}

// FederatedState is the state of a federated login completion attempt.
type FederatedState int

const (
	StateAwaitingRedirect FederatedState = iota
	StateVerifying
	StateSucceeded
	StateFailed
)

// String returns the state name.
func (s FederatedState) String() string {
	switch s {
	case StateAwaitingRedirect:
		return "AwaitingRedirectCompletion"
	case StateVerifying:
		return "Verifying"
	case StateSucceeded:
		return "Succeeded"
	default:
		return "Failed"
	}
}

// FederatedLogin drives the completion of a redirect-based federated
// sign-in as a single cancellable task:
//
//	AwaitingRedirectCompletion -> Verifying -> {Succeeded, Failed}
//
// An immediate session probe and the out-of-band redirect-completed signal
// feed the same completion path, so the handler runs at most once.
type FederatedLogin struct {
	flow *Flow

	mu    sync.Mutex
	state FederatedState

	signal chan struct{}
	once   sync.Once
	done   chan error
}

// StartFederated initiates a federated sign-in with the named provider and
// returns the completion task. If the provider's redirect call fails, the
// flow falls back to a manually constructed authorization-code URL; this
// is a degraded path and is logged as such.
func (f *Flow) StartFederated(ctx context.Context, provider string) *FederatedLogin {
	if err := f.provider.SignInWithRedirect(ctx, provider); err != nil {
		f.logger.WarnContext(ctx, "provider redirect initiation failed, using fallback authorization URL",
			"provider", provider,
			"error", err)
		f.nav.NavigateTo(f.fallbackAuthorizeURL(provider))
	}

	fl := &FederatedLogin{
		flow:   f,
		state:  StateAwaitingRedirect,
		signal: make(chan struct{}, 1),
		done:   make(chan error, 1),
	}
	go fl.run(ctx)
	return fl
}

// fallbackAuthorizeURL builds the OAuth2 authorization-code URL against
// the identity provider's hosted domain.
func (f *Flow) fallbackAuthorizeURL(provider string) string {
	cfg := oauth2.Config{
		ClientID:    f.fallback.ClientID,
		RedirectURL: f.fallback.RedirectURI,
		Scopes:      []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL: "https://" + f.fallback.Domain + "/oauth2/authorize",
		},
	}
	return cfg.AuthCodeURL("", oauth2.SetAuthURLParam("identity_provider", provider))
}

// run is the single completion task. It probes the session once
// immediately (the redirect may already have completed), then waits for
// the redirect-completed signal or cancellation.
func (fl *FederatedLogin) run(ctx context.Context) {
	fl.setState(StateVerifying)
	if fl.flow.sessions.CheckSession(ctx) {
		fl.finish(nil)
		return
	}
	fl.setState(StateAwaitingRedirect)

	select {
	case <-fl.signal:
		fl.setState(StateVerifying)
		if fl.flow.sessions.CheckSession(ctx) {
			fl.finish(nil)
		} else {
			fl.finish(domain.ErrNotAuthenticated)
		}
	case <-ctx.Done():
		fl.finish(ctx.Err())
	}
}

// NotifyRedirectCompleted signals that the identity provider reported the
// redirect round trip as complete. Safe to call multiple times.
func (fl *FederatedLogin) NotifyRedirectCompleted() {
	select {
	case fl.signal <- struct{}{}:
	default:
	}
}

// Wait blocks until the completion task reaches a terminal state. A nil
// return means the sign-in succeeded and navigation to the authenticated
// area has been committed.
func (fl *FederatedLogin) Wait(ctx context.Context) error {
	select {
	case err := <-fl.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current state of the completion task.
func (fl *FederatedLogin) State() FederatedState {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.state
}

func (fl *FederatedLogin) setState(s FederatedState) {
	fl.mu.Lock()
	fl.state = s
	fl.mu.Unlock()
}

func (fl *FederatedLogin) finish(err error) {
	fl.once.Do(func() {
		if err == nil {
			fl.setState(StateSucceeded)
			fl.flow.nav.NavigateTo(fl.flow.routes.Home)
		} else {
			fl.setState(StateFailed)
		}
		fl.done <- err
	})
}
