// Package metrics defines the Prometheus collectors for the crawler and
// the search API and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PagesFetchedTotal *prometheus.CounterVec
	PagesIndexedTotal prometheus.Counter
	FetchDuration     prometheus.Histogram
	FrontierSize      prometheus.Gauge
	VisitedURLs       prometheus.Gauge

	SearchQueriesTotal *prometheus.CounterVec
	SearchLatency      *prometheus.HistogramVec
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		PagesFetchedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_pages_fetched_total",
				Help: "Total fetch attempts by outcome (ok, fetch_error, robots_denied).",
			},
			[]string{"outcome"},
		),
		PagesIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "crawler_pages_indexed_total",
				Help: "Total pages ingested into the document store.",
			},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crawler_fetch_duration_seconds",
				Help:    "Page fetch latency in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 7.5},
			},
		),
		FrontierSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "crawler_frontier_size",
				Help: "Number of URLs currently queued in the frontier.",
			},
		),
		VisitedURLs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "crawler_visited_urls",
				Help: "Number of URLs visited in the current crawl run.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of query cache misses.",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PagesFetchedTotal,
		m.PagesIndexedTotal,
		m.FetchDuration,
		m.FrontierSize,
		m.VisitedURLs,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
