// Package api is the thin JSON presentation layer over the query engine.
// It holds no ranking or storage logic of its own.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"webseek/internal/search"
	"webseek/internal/storage"
	"webseek/pkg/logger"
	"webseek/pkg/metrics"
)

// Searcher is the narrow query interface the core exposes to this layer.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
	SearchImages(ctx context.Context, query string) ([]storage.Image, error)
	Suggest(ctx context.Context, prefix string) ([]string, error)
}

// StatsSource reports document-store progress for the stats endpoint.
type StatsSource interface {
	CountDocuments(ctx context.Context) (int64, error)
}

// CrawlProgress exposes the crawler's frontier counters.
type CrawlProgress interface {
	VisitedCount() int
	Len() int
}

type Handler struct {
	searcher Searcher
	cache    *search.QueryCache
	stats    StatsSource
	crawl    CrawlProgress
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewHandler(searcher Searcher, cache *search.QueryCache, stats StatsSource, crawl CrawlProgress, m *metrics.Metrics) *Handler {
	return &Handler{
		searcher: searcher,
		cache:    cache,
		stats:    stats,
		crawl:    crawl,
		metrics:  m,
		logger:   slog.Default().With("component", "api"),
	}
}

type searchResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Results []search.Result `json:"results"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	var results []search.Result
	var err error
	cacheHit := false
	if h.cache != nil {
		results, cacheHit, err = h.cache.GetOrCompute(ctx, query, func() ([]search.Result, error) {
			return h.searcher.Search(ctx, query)
		})
	} else {
		results, err = h.searcher.Search(ctx, query)
	}
	if err != nil {
		log.Error("search failed", "query", query, "error", err)
		h.countQuery("error")
		h.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	switch {
	case len(results) == 0:
		h.countQuery("zero_result")
	default:
		h.countQuery("hit")
	}
	h.observeLatency(cacheHit, time.Since(start))
	log.Info("search completed",
		"query", query,
		"returned", len(results),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if results == nil {
		results = []search.Result{}
	}
	h.writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Total:   len(results),
		Results: results,
	})
}

func (h *Handler) Images(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	images, err := h.searcher.SearchImages(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Error("image search failed", "query", query, "error", err)
		h.writeError(w, http.StatusInternalServerError, "image search failed")
		return
	}
	if images == nil {
		images = []storage.Image{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"query":  query,
		"images": images,
	})
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prefix := r.URL.Query().Get("q")

	terms, err := h.searcher.Suggest(ctx, prefix)
	if err != nil {
		logger.FromContext(ctx).Error("suggest failed", "prefix", prefix, "error", err)
		h.writeError(w, http.StatusInternalServerError, "suggest failed")
		return
	}
	if terms == nil {
		terms = []string{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"prefix":      prefix,
		"suggestions": terms,
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := h.stats.CountDocuments(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("stats failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	resp := map[string]any{"documents": count}
	if h.crawl != nil {
		resp["visited_urls"] = h.crawl.VisitedCount()
		resp["frontier_size"] = h.crawl.Len()
	}
	if h.cache != nil {
		hits, misses := h.cache.Stats()
		resp["cache_hits"] = hits
		resp["cache_misses"] = misses
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) countQuery(resultType string) {
	if h.metrics != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}

func (h *Handler) observeLatency(cacheHit bool, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	status := "miss"
	if cacheHit {
		status = "hit"
	}
	h.metrics.SearchLatency.WithLabelValues(status).Observe(elapsed.Seconds())
	if cacheHit {
		h.metrics.CacheHitsTotal.Inc()
	} else if h.cache != nil {
		h.metrics.CacheMissesTotal.Inc()
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
