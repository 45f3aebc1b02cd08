// Package metrics exposes the Prometheus registry used by storefront and the
// HTTP facade's request metrics. Component metrics are defined in their own
// packages (client, cache, cart, store) and registered via promauto.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every storefront metric is registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer served on /metrics.
var Gatherer = prometheus.DefaultGatherer

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of facade HTTP requests by route and status code",
		},
		[]string{"method", "route", "code"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Facade HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Handler returns the /metrics handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations labelled by the matched
// chi route pattern, so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Metrics reference:
//
// API client (pkg/client):
//   - storefront_api_requests_total{method, status}
//   - storefront_api_request_duration_seconds{method}
//   - storefront_api_errors_total{class}
//
// Cache (pkg/cache):
//   - storefront_cache_hits_total, storefront_cache_misses_total
//   - storefront_cache_evictions_total{reason}
//   - storefront_cache_entries
//   - storefront_cache_errors_total{operation}
//   - storefront_cache_coalesced_total
//
// Cart and store (pkg/cart, pkg/store):
//   - storefront_cart_items_added_total
//   - storefront_store_errors_total{backend, operation}
//
// Facade (this package):
//   - storefront_http_requests_total{method, route, code}
//   - storefront_http_request_duration_seconds{method, route}
//
// Example queries:
//
//	# Cache hit rate
//	sum(rate(storefront_cache_hits_total[5m])) /
//	(sum(rate(storefront_cache_hits_total[5m])) + sum(rate(storefront_cache_misses_total[5m])))
//
//	# P95 upstream latency
//	histogram_quantile(0.95, rate(storefront_api_request_duration_seconds_bucket[5m]))
