package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// mockSource implements domain.TokenSource for testing.
type mockSource struct {
	mu       sync.Mutex
	subject  string
	userErr  error
	tokens   *domain.TokenSet
	fetchErr error
	calls    int32
	delay    time.Duration
}

func (m *mockSource) GetCurrentUser(_ context.Context) (string, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subject, m.userErr
}

func (m *mockSource) FetchSession(_ context.Context) (*domain.TokenSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens, m.fetchErr
}

func validTokens() *domain.TokenSet {
	return &domain.TokenSet{
		IDToken: "header.payload.sig",
		Claims: domain.IdentityClaims{
			Subject:       "user-123",
			Email:         "owner@example.com",
			EmailVerified: true,
			TenantType:    "PERSONAL",
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestCheckSession_Success(t *testing.T) {
	source := &mockSource{subject: "user-123", tokens: validTokens()}
	state := New(source, nil)

	ok := state.CheckSession(context.Background())

	assert.True(t, ok)
	info, present := state.Identity()
	assert.True(t, present)
	assert.Equal(t, "user-123", info.SubjectID)
	assert.Equal(t, "owner@example.com", info.Email)
	assert.True(t, info.EmailVerified)
	assert.Equal(t, "PERSONAL", info.TenantType)
	assert.Equal(t, ok, state.IsAuthenticated(), "return value must match stored state")
}

func TestCheckSession_NoCurrentUser(t *testing.T) {
	source := &mockSource{userErr: domain.ErrNotAuthenticated}
	state := New(source, nil)

	assert.False(t, state.CheckSession(context.Background()))
	assert.False(t, state.IsAuthenticated())
}

func TestCheckSession_ClearsStaleIdentity(t *testing.T) {
	source := &mockSource{subject: "user-123", tokens: validTokens()}
	state := New(source, nil)
	assert.True(t, state.CheckSession(context.Background()))

	// Provider now denies the session; the previously stored identity
	// must not leak.
	source.mu.Lock()
	source.fetchErr = domain.ErrNoCredential
	source.mu.Unlock()

	assert.False(t, state.CheckSession(context.Background()))
	_, present := state.Identity()
	assert.False(t, present)
}

func TestCheckSession_EmptyTokenIsFailure(t *testing.T) {
	source := &mockSource{subject: "user-123", tokens: &domain.TokenSet{}}
	state := New(source, nil)

	assert.False(t, state.CheckSession(context.Background()))
	assert.False(t, state.IsAuthenticated())
}

func TestCheckSession_ReturnMatchesStateAcrossSequences(t *testing.T) {
	source := &mockSource{subject: "user-123", tokens: validTokens()}
	state := New(source, nil)

	outcomes := []struct {
		fetchErr error
	}{
		{nil}, {domain.ErrNoCredential}, {nil}, {nil}, {domain.ErrProviderUnavailable},
	}

	for _, o := range outcomes {
		source.mu.Lock()
		source.fetchErr = o.fetchErr
		source.mu.Unlock()

		got := state.CheckSession(context.Background())
		assert.Equal(t, got, state.IsAuthenticated())
	}
}

func TestCheckSession_CoalescesConcurrentCalls(t *testing.T) {
	source := &mockSource{subject: "user-123", tokens: validTokens(), delay: 50 * time.Millisecond}
	state := New(source, nil)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = state.CheckSession(context.Background())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r)
	}
	// All eight callers share one in-flight provider round trip.
	assert.Equal(t, int32(1), atomic.LoadInt32(&source.calls))
}

func TestOnChange_Notifications(t *testing.T) {
	source := &mockSource{subject: "user-123", tokens: validTokens()}
	state := New(source, nil)

	var mu sync.Mutex
	var events []*domain.UserInfo
	state.OnChange(func(info *domain.UserInfo) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, info)
	})

	state.CheckSession(context.Background())
	state.Clear()
	state.Clear() // already cleared, no extra event

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, events, 2)
	assert.NotNil(t, events[0])
	assert.Nil(t, events[1])
}
