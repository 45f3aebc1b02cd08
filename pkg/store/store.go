// Package store provides the persistent key-value store used for values that
// must survive restarts, such as the cart count. Values are JSON encoded.
package store

import (
	"context"
)

// Store is a string-keyed store of JSON-serializable values.
type Store interface {
	// Get decodes the value under key into dst. It reports false when the
	// key is absent or the stored value cannot be decoded.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores value under key without expiry.
	Set(ctx context.Context, key string, value any) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear deletes every key owned by the store.
	Clear(ctx context.Context) error

	// Has reports whether key exists.
	Has(ctx context.Context, key string) (bool, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
