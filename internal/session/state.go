// Package session holds the single source of truth for "is there a valid
// authenticated identity". The State container is constructed once at
// application start and passed by handle to every consumer (route gate,
// request transport, UI); there is no ambient global.
package session

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// State is the in-memory authenticated-session state. All methods are safe
// for concurrent use.
type State struct {
	source domain.TokenSource
	logger *slog.Logger

	mu       sync.RWMutex
	identity *domain.UserInfo
	watchers []func(*domain.UserInfo)

	// Concurrent CheckSession calls share one in-flight provider check
	// instead of racing last-write-wins updates.
	group singleflight.Group
}

// New creates a session state bound to the given token source.
func New(source domain.TokenSource, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{source: source, logger: logger}
}

// CheckSession queries the identity provider for the current identity and a
// fresh credential. On success it stores the decoded identity and returns
// true; on any failure (no session, expired, network error) it clears the
// stored identity and returns false. It never returns an error.
//
// Overlapping calls are coalesced: all callers observe the result of a
// single provider round trip.
func (s *State) CheckSession(ctx context.Context) bool {
	v, _, _ := s.group.Do("check", func() (any, error) {
		return s.check(ctx), nil
	})
	return v.(bool)
}

func (s *State) check(ctx context.Context) bool {
	subject, err := s.source.GetCurrentUser(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "session check: no current user", "error", err)
		s.Clear()
		return false
	}

	tokens, err := s.source.FetchSession(ctx)
	if err != nil || tokens == nil || tokens.IDToken == "" {
		s.logger.DebugContext(ctx, "session check: no credential", "error", err)
		s.Clear()
		return false
	}

	claims := tokens.Claims
	s.SetIdentity(&domain.UserInfo{
		SubjectID:     subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		TenantType:    claims.TenantType,
		TenantID:      claims.TenantID,
		Role:          claims.Role,
	})
	return true
}

// SetIdentity stores the identity and marks the session authenticated.
func (s *State) SetIdentity(info *domain.UserInfo) {
	s.mu.Lock()
	s.identity = info
	watchers := append([]func(*domain.UserInfo){}, s.watchers...)
	s.mu.Unlock()

	for _, w := range watchers {
		w(info)
	}
}

// Clear removes the stored identity and marks the session unauthenticated.
func (s *State) Clear() {
	s.mu.Lock()
	cleared := s.identity != nil
	s.identity = nil
	watchers := append([]func(*domain.UserInfo){}, s.watchers...)
	s.mu.Unlock()

	if cleared {
		for _, w := range watchers {
			w(nil)
		}
	}
}

// Identity returns the current identity, if authenticated.
func (s *State) Identity() (*domain.UserInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.identity != nil
}

// IsAuthenticated reports whether an identity is present.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// OnChange registers a callback invoked after every identity change. The
// callback receives nil when the session is cleared.
func (s *State) OnChange(fn func(*domain.UserInfo)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

var _ domain.SessionChecker = (*State)(nil)
