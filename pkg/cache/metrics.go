package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh reads
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cache_hits_total",
			Help: "Total number of storefront cache hits",
		},
	)

	// CacheMisses tracks reads of absent or stale keys
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cache_misses_total",
			Help: "Total number of storefront cache misses",
		},
	)

	// CacheEvictions tracks removed entries by reason
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_evictions_total",
			Help: "Total number of storefront cache evictions",
		},
		[]string{"reason"}, // "expired", "deleted", "cleared"
	)

	// CacheEntries tracks the number of entries currently held
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_cache_entries",
			Help: "Current number of storefront cache entries",
		},
	)

	// CacheErrors tracks rejected cache operations
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "set"
	)

	// CacheCoalesced tracks callers that shared another caller's fetch
	CacheCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cache_coalesced_total",
			Help: "Total number of fetches shared between concurrent callers",
		},
	)
)
