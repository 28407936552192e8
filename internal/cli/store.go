package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pawanraocse/gst-sense/internal/adapter/gateway"
)

// sessionStore persists the credential snapshot between invocations.
type sessionStore struct {
	path string
}

func newSessionStore() (*sessionStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	return &sessionStore{path: filepath.Join(dir, "gstsense", "session.json")}, nil
}

// Load reads the stored snapshot, if any.
func (s *sessionStore) Load() (*gateway.TokenSnapshot, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}
	var snap gateway.TokenSnapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.IDToken == "" {
		return nil, false
	}
	return &snap, true
}

// Save writes the snapshot with owner-only permissions.
func (s *sessionStore) Save(snap *gateway.TokenSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear removes the stored snapshot.
func (s *sessionStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
