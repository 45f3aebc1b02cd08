package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/storefront-core/pkg/domain"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is how long an entry stays fresh when Config.TTL is unset.
	DefaultTTL = time.Hour
)

var (
	// ErrEmptyKey is returned by Set for an empty key.
	ErrEmptyKey = errors.New("empty cache key")

	// ErrCacheFull is returned by Set when MaxEntries is reached and no
	// expired entry could be evicted.
	ErrCacheFull = errors.New("cache full")
)

// Config holds cache configuration.
type Config struct {
	// TTL is the lifetime of every entry written by Set.
	TTL time.Duration

	// MaxEntries bounds the number of entries. 0 means unbounded.
	MaxEntries int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		TTL: DefaultTTL,
		Now: time.Now,
	}
}

// Manager is an in-memory TTL cache. It is safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	flights  singleflight.Group
	inflight map[string]*flight
}

// flight tracks one running fetch. stale is set under Manager.mu when the key
// is invalidated, and a stale flight does not write its result back.
type flight struct {
	stale bool
}

// NewManager creates a new cache manager.
func NewManager(cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		entries:    make(map[string]*Entry),
		inflight:   make(map[string]*flight),
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		now:        cfg.Now,
	}
}

// TTL returns the configured entry lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Get returns the value stored under key if it is still fresh.
// A stale entry is evicted.
func (m *Manager) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookupLocked(key)
	if !ok {
		CacheMisses.Inc()
		return nil, false
	}
	CacheHits.Inc()
	return entry.Value, true
}

// Has reports whether a fresh entry exists for key. A stale entry is evicted.
func (m *Manager) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookupLocked(key)
	return ok
}

// Set stores value under key with expiry now+TTL, replacing any existing
// entry. Rejected writes return a domain.KindCache error.
func (m *Manager) Set(key string, value any) error {
	if key == "" {
		CacheErrors.WithLabelValues("set").Inc()
		return domain.Cache("failed to cache data", ErrEmptyKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(key, value)
}

// setFromFlight is Set for the fetch f. It is a no-op when key was
// invalidated while f was running.
func (m *Manager) setFromFlight(key string, value any, f *flight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.stale {
		return nil
	}
	return m.setLocked(key, value)
}

// setLocked stores value under key. m.mu must be held.
func (m *Manager) setLocked(key string, value any) error {
	now := m.now()
	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.evictExpiredLocked(now)
		if len(m.entries) >= m.maxEntries {
			CacheErrors.WithLabelValues("set").Inc()
			return domain.Cache(fmt.Sprintf("failed to cache data under %q", key), ErrCacheFull)
		}
	}

	if _, exists := m.entries[key]; !exists {
		CacheEntries.Inc()
	}
	m.entries[key] = &Entry{
		Value:     value,
		ExpiresAt: now.Add(m.ttl),
		CachedAt:  now,
	}
	return nil
}

// Delete removes the entry for key. A fetch already in flight for key is
// detached: later GetOrFetch callers start a new one, and its result is not
// written back.
func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.detachLocked(key)
	if _, ok := m.entries[key]; ok {
		delete(m.entries, key)
		CacheEntries.Dec()
		CacheEvictions.WithLabelValues("deleted").Inc()
	}
}

// Clear removes every entry and detaches every in-flight fetch, as Delete.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.inflight {
		m.detachLocked(key)
	}
	n := len(m.entries)
	m.entries = make(map[string]*Entry)
	CacheEntries.Sub(float64(n))
	CacheEvictions.WithLabelValues("cleared").Add(float64(n))
}

// Len returns the number of stored entries, fresh or not yet evicted.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// lookupLocked returns the fresh entry for key, evicting it if stale.
// m.mu must be held.
func (m *Manager) lookupLocked(key string) (*Entry, bool) {
	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if entry.IsExpired(m.now()) {
		delete(m.entries, key)
		CacheEntries.Dec()
		CacheEvictions.WithLabelValues("expired").Inc()
		return nil, false
	}
	return entry, true
}

// evictExpiredLocked drops every stale entry. m.mu must be held.
func (m *Manager) evictExpiredLocked(now time.Time) {
	for key, entry := range m.entries {
		if entry.IsExpired(now) {
			delete(m.entries, key)
			CacheEntries.Dec()
			CacheEvictions.WithLabelValues("expired").Inc()
		}
	}
}

// peek is Get without hit/miss accounting, used to re-check inside a flight.
func (m *Manager) peek(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookupLocked(key)
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// detachLocked marks the running fetch for key stale and forgets it, so the
// next GetOrFetch starts a new one. m.mu must be held.
func (m *Manager) detachLocked(key string) {
	if f, ok := m.inflight[key]; ok {
		f.stale = true
		delete(m.inflight, key)
	}
	m.flights.Forget(key)
}

func (m *Manager) beginFlight(key string) *flight {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := &flight{}
	m.inflight[key] = f
	return f
}

func (m *Manager) endFlight(key string, f *flight) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight[key] == f {
		delete(m.inflight, key)
	}
}

// GetOrFetch returns the fresh value cached under key, or runs fetch, caches
// its result and returns it. Concurrent misses on the same key share a single
// fetch. Errors from fetch and from Set are returned unmodified and nothing is
// cached. A cached value that is not a T is treated as a miss.
//
// A nil result is cached like any other value and later served as a hit.
// Callers that must not remember absence return an error from fetch instead.
func GetOrFetch[T any](ctx context.Context, m *Manager, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := m.Get(key); ok {
		if v == nil {
			return zero, nil
		}
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	// The flight outlives any single waiter, so it must not inherit
	// cancellation from whichever caller happened to start it.
	flightCtx := context.WithoutCancel(ctx)

	ch := m.flights.DoChan(key, func() (any, error) {
		f := m.beginFlight(key)
		defer m.endFlight(key, f)

		if v, ok := m.peek(key); ok {
			if v == nil {
				return nil, nil
			}
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}

		value, err := fetch(flightCtx)
		if err != nil {
			return nil, err
		}
		if key == "" {
			CacheErrors.WithLabelValues("set").Inc()
			return nil, domain.Cache("failed to cache data", ErrEmptyKey)
		}
		if err := m.setFromFlight(key, value, f); err != nil {
			return nil, err
		}
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			CacheCoalesced.Inc()
		}
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Val == nil {
			return zero, nil
		}
		typed, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache: flight for %q returned %T", key, res.Val)
		}
		return typed, nil
	}
}
