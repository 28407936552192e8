package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawanraocse/gst-sense/internal/domain"
	"github.com/pawanraocse/gst-sense/internal/session"
	"github.com/pawanraocse/gst-sense/internal/transport"
)

// expiredSource is a token source whose credential can no longer be
// refreshed.
type expiredSource struct{}

func (expiredSource) GetCurrentUser(context.Context) (string, error) {
	return "user-1", nil
}

func (expiredSource) FetchSession(context.Context) (*domain.TokenSet, error) {
	return nil, domain.ErrTokenExpired
}

type recordingNav struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNav) NavigateTo(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

// An expired credential plays out in two acts: the backend rejects the
// next API call and the classifier bounces to login, then the login page's
// guest guard admits the user because the session check now fails.
func TestExpiredCredential_RedirectsThenAdmitsToLogin(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer backend.Close()

	nav := &recordingNav{}
	client := &http.Client{
		Transport: transport.NewClassifier(http.DefaultTransport, nav, "/auth/login", nil, nil),
	}

	resp, err := client.Get(backend.URL + "/gst/api/v1/entries")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "failure still reaches the caller")
	assert.Equal(t, []string{"/auth/login"}, nav.routes)

	sessions := session.New(expiredSource{}, nil)
	g := New(sessions, "/auth/login", "/app")

	d := g.GuestGuard(context.Background(), "/auth/login")
	assert.True(t, d.Allowed, "dead session admits the user to the login page")
	assert.False(t, sessions.IsAuthenticated())
}
