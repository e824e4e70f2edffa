// Package metrics defines the Prometheus collectors exported at /metrics.
//
// Cache metrics:
//   - catalog_cache_hits_total (Counter): GET responses served from the cache
//   - catalog_cache_misses_total (Counter): GET lookups that went to the repository
//   - catalog_cache_stale_populates_total (Counter): populates dropped because an invalidation overtook them
//   - catalog_cache_invalidations_total{resource} (Counter): full invalidations after a mutation
//   - catalog_cache_errors_total{operation} (Counter): backend failures ("get", "set", "clear")
//
// HTTP metrics:
//   - catalog_http_requests_total{method, route, status} (Counter)
//   - catalog_http_request_duration_seconds{method, route} (Histogram)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	CacheStalePopulates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_stale_populates_total",
			Help: "Cache populates dropped because the cache was invalidated after the read",
		},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_invalidations_total",
			Help: "Total number of full cache invalidations",
		},
		[]string{"resource"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"operation"}, // "get", "set", "clear"
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
