// file: internal/metrics/metrics.go
// version: 1.1.0
// guid: dfff4122-6d9c-4651-9254-735f0308873c

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reading_room",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status",
	}, []string{"route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reading_room",
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of HTTP request durations in seconds by route",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"route"})

	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reading_room",
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reading_room",
		Name:      "query_cache_hits_total",
		Help:      "Total number of fresh query cache hits",
	})
	cacheStale = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reading_room",
		Name:      "query_cache_stale_total",
		Help:      "Total number of stale reads served while revalidating",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reading_room",
		Name:      "query_cache_misses_total",
		Help:      "Total number of query cache misses",
	})

	downloadsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reading_room",
		Name:      "downloads_started_total",
		Help:      "Total number of book download requests",
	})
	downloadsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reading_room",
		Name:      "downloads_failed_total",
		Help:      "Total number of failed book downloads",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, upstreamRequests,
			cacheHits, cacheStale, cacheMisses, downloadsStarted, downloadsFailed)
	})
}

// HTTP helpers
func IncHTTPRequest(route, status string) { httpRequests.WithLabelValues(route, status).Inc() }
func ObserveHTTPDuration(route string, d time.Duration) {
	httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Upstream helpers
func IncUpstreamRequest(endpoint, status string) {
	upstreamRequests.WithLabelValues(endpoint, status).Inc()
}

// Query cache helpers
func IncCacheHit()   { cacheHits.Inc() }
func IncCacheStale() { cacheStale.Inc() }
func IncCacheMiss()  { cacheMisses.Inc() }

// Download helpers
func IncDownloadStarted() { downloadsStarted.Inc() }
func IncDownloadFailed()  { downloadsFailed.Inc() }
