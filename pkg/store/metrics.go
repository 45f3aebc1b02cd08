package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeErrors tracks failed store operations by backend.
var storeErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_store_errors_total",
		Help: "Total number of key-value store operation errors",
	},
	[]string{"backend", "operation"},
)
