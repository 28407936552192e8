package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// staticSource implements domain.TokenSource with a fixed token set.
type staticSource struct {
	tokens *domain.TokenSet
	err    error
}

func (s *staticSource) GetCurrentUser(context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.tokens.Claims.Subject, nil
}

func (s *staticSource) FetchSession(context.Context) (*domain.TokenSet, error) {
	return s.tokens, s.err
}

func TestAuthorizer_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	source := &staticSource{tokens: &domain.TokenSet{IDToken: "id-token-abc"}}
	client := &http.Client{Transport: NewAuthorizer(nil, source, nil)}

	resp, err := client.Get(srv.URL + "/api/v1/entries")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer id-token-abc", gotAuth)
}

func TestAuthorizer_NoCredentialForwardsUnmodified(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
	}))
	defer srv.Close()

	source := &staticSource{err: domain.ErrNotAuthenticated}
	client := &http.Client{Transport: NewAuthorizer(nil, source, nil)}

	resp, err := client.Get(srv.URL + "/api/v1/entries")
	require.NoError(t, err)
	resp.Body.Close()

	assert.False(t, sawAuthHeader, "request must be dispatched without Authorization header")
}

func TestAuthorizer_DoesNotMutateOriginalRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	source := &staticSource{tokens: &domain.TokenSet{IDToken: "id-token-abc"}}
	authorizer := NewAuthorizer(nil, source, nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := authorizer.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"), "original request must stay untouched")
}
