package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Feed metrics
	FeedRequestsTotal  prometheus.CounterVec
	FeedDuration       prometheus.HistogramVec
	FeedItemsReturned  prometheus.HistogramVec
	FeedSourceFailures prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),

			FeedRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_requests_total",
					Help: "Total number of activity feed requests",
				},
				[]string{"feed", "status"},
			),
			FeedDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_duration_seconds",
					Help:    "Activity feed generation latency in seconds",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"feed"},
			),
			FeedItemsReturned: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_items_returned",
					Help:    "Number of items returned per feed request",
					Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
				},
				[]string{"feed"},
			),
			FeedSourceFailures: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_source_failures_total",
					Help: "Per-source fetch failures isolated during feed aggregation",
				},
				[]string{"source"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total cache hits",
				},
				[]string{"cache"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total cache misses",
				},
				[]string{"cache"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
