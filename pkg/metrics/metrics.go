// Package metrics provides the centralized Prometheus metrics registry for
// the listing client. All metrics are defined in their respective packages
// (client, cache) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the listing client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - listing_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - listing_cache_misses_total (Counter): Cache misses
//   - listing_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - listing_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - listing_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - listing_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - listing_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//   - listing_pages_fetched_total{endpoint} (Counter): Listing pages fetched by endpoint
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(listing_cache_hits_total[5m])) /
//   (sum(rate(listing_cache_hits_total[5m])) + sum(rate(listing_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(listing_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(listing_request_duration_seconds_bucket[5m]))
//
//   # Pages fetched per listing endpoint
//   sum by (endpoint) (rate(listing_pages_fetched_total[5m]))
