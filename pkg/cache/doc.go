// Package cache provides the in-memory read-through cache that sits between
// the repositories and the product API.
//
// Entries carry an absolute expiry computed at write time from the configured
// TTL (one hour by default). A read after the expiry is a miss and evicts the
// entry.
//
// # Basic Usage
//
//	manager := cache.NewManager(cache.DefaultConfig())
//
//	if err := manager.Set(cache.ProductsKey().String(), products); err != nil {
//		return err
//	}
//
//	value, ok := manager.Get(cache.ProductsKey().String())
//
// # Read-through
//
//	products, err := cache.GetOrFetch(ctx, manager, cache.ProductsKey().String(),
//		func(ctx context.Context) ([]domain.Product, error) {
//			return fetchFromAPI(ctx)
//		})
//
// GetOrFetch runs at most one producer per key at a time. Goroutines that miss
// on a key while a fetch for it is in flight wait for that fetch and share its
// result instead of issuing their own. A failed fetch is not cached, so the
// next call runs the producer again. Each waiter stops waiting when its own
// context is done; the in-flight fetch keeps running for the others.
//
// # Metrics
//
//   - storefront_cache_hits_total - Cache hits
//   - storefront_cache_misses_total - Cache misses
//   - storefront_cache_evictions_total{reason} - Evictions (expired, deleted, cleared)
//   - storefront_cache_entries - Current number of entries
//   - storefront_cache_errors_total{operation} - Rejected writes
//   - storefront_cache_coalesced_total - Fetches shared with another caller
package cache
