package cache

import (
	"time"
)

// Entry is a cached value and its absolute expiry.
type Entry struct {
	// Value is the cached value, stored by reference.
	Value any

	// ExpiresAt is the last instant at which the entry is still fresh.
	ExpiresAt time.Time

	// CachedAt is when the entry was written.
	CachedAt time.Time
}

// IsExpired returns true if the entry is stale at now.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// TTL returns the time remaining until expiration at now.
// Returns 0 if already expired.
func (e *Entry) TTL(now time.Time) time.Duration {
	ttl := e.ExpiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
