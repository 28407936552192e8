package flow

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

func TestFederated_ImmediateSessionSucceeds(t *testing.T) {
	// Redirect already completed before the task starts.
	provider := &fakeProvider{sessionValid: true, subject: "user-123"}
	f, _, nav := newTestFlow(provider)

	fl := f.StartFederated(context.Background(), "Google")

	require.NoError(t, fl.Wait(context.Background()))
	assert.Equal(t, StateSucceeded, fl.State())
	assert.Equal(t, []string{"/app"}, nav.all())
}

func TestFederated_SignalDrivesCompletion(t *testing.T) {
	provider := &fakeProvider{sessionValid: false}
	f, _, nav := newTestFlow(provider)

	fl := f.StartFederated(context.Background(), "Google")

	// Redirect completes out of band, then the provider reports it.
	provider.completeRedirect()
	fl.NotifyRedirectCompleted()

	require.NoError(t, fl.Wait(context.Background()))
	assert.Equal(t, StateSucceeded, fl.State())
	assert.Equal(t, []string{"/app"}, nav.all(), "completion handler runs exactly once")
}

func TestFederated_SignalWithoutSessionFails(t *testing.T) {
	provider := &fakeProvider{sessionValid: false}
	f, _, nav := newTestFlow(provider)

	fl := f.StartFederated(context.Background(), "Google")
	fl.NotifyRedirectCompleted()

	err := fl.Wait(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))
	assert.Equal(t, StateFailed, fl.State())
	assert.Empty(t, nav.all())
}

func TestFederated_CancellationFails(t *testing.T) {
	provider := &fakeProvider{sessionValid: false}
	f, _, _ := newTestFlow(provider)

	ctx, cancel := context.WithCancel(context.Background())
	fl := f.StartFederated(ctx, "Google")
	cancel()

	err := fl.Wait(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, fl.State())
}

func TestFederated_DuplicateSignalsSingleCompletion(t *testing.T) {
	provider := &fakeProvider{sessionValid: false}
	f, _, nav := newTestFlow(provider)

	fl := f.StartFederated(context.Background(), "Google")
	provider.completeRedirect()
	fl.NotifyRedirectCompleted()
	fl.NotifyRedirectCompleted()
	fl.NotifyRedirectCompleted()

	require.NoError(t, fl.Wait(context.Background()))

	// Give any erroneous second completion a moment to surface.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"/app"}, nav.all())
}

func TestFederated_FallbackURLOnRedirectFailure(t *testing.T) {
	provider := &fakeProvider{
		sessionValid: false,
		redirectErr:  errors.New("redirect blocked"),
	}
	f, _, nav := newTestFlow(provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fl := f.StartFederated(ctx, "Google")
	cancel()
	_ = fl.Wait(context.Background())

	routes := nav.all()
	require.NotEmpty(t, routes)

	u, err := url.Parse(routes[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(routes[0], "https://auth.gst-sense.example.com/oauth2/authorize?"))
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-abc", q.Get("client_id"))
	assert.Equal(t, "https://app.gst-sense.example.com/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "Google", q.Get("identity_provider"))
}
