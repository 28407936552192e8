// Package cache provides the in-memory verified-token cache used by the
// gateway's validation hot path.
package cache

import (
	"sync"
	"time"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

type entry struct {
	user      *domain.UserInfo
	expiresAt time.Time
}

// TokenCache is a TTL cache of verified identities. Expired entries are
// dropped lazily on read and swept when the map grows past the sweep
// threshold.
type TokenCache struct {
	mu             sync.RWMutex
	entries        map[string]entry
	ttl            time.Duration
	sweepThreshold int
}

// NewTokenCache creates a cache whose entries live for ttl.
func NewTokenCache(ttl time.Duration) *TokenCache {
	return &TokenCache{
		entries:        make(map[string]entry),
		ttl:            ttl,
		sweepThreshold: 10_000,
	}
}

// Get returns the cached identity for key, if present and unexpired.
func (c *TokenCache) Get(key string) (*domain.UserInfo, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.user, true
}

// Set stores the identity for key.
func (c *TokenCache) Set(key string, user *domain.UserInfo) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.sweepThreshold {
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = entry{user: user, expiresAt: now.Add(c.ttl)}
}

// Len reports the number of stored entries, expired ones included.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ domain.VerifiedTokenCache = (*TokenCache)(nil)
