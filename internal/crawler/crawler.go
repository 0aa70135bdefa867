// Package crawler drives page discovery: a FIFO frontier feeds a fetch
// loop that extracts text and links, tokenizes the content, and ingests it
// into storage. It runs as one long-lived background task, fully decoupled
// from query handling; the storage layer is the only shared dependency.
package crawler

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"webseek/internal/storage"
	"webseek/internal/tokenizer"
	"webseek/pkg/apperr"
	"webseek/pkg/config"
	"webseek/pkg/metrics"
)

// Ingestor is the storage capability the crawler writes through.
type Ingestor interface {
	SavePage(ctx context.Context, page storage.Page, termCounts map[string]int, images []storage.Image) (int64, error)
}

// Crawler owns the frontier and the fetch loop. Failures are handled per
// URL: a bad page is marked visited and skipped, never retried, and never
// stops the crawl.
type Crawler struct {
	cfg      config.CrawlerConfig
	store    Ingestor
	fetcher  *Fetcher
	frontier *Frontier
	robots   *robotsCache
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(cfg config.CrawlerConfig, store Ingestor, m *metrics.Metrics) *Crawler {
	fetcher := NewFetcher(cfg.FetchTimeout(), cfg.UserAgent)
	c := &Crawler{
		cfg:      cfg,
		store:    store,
		fetcher:  fetcher,
		frontier: NewFrontier(cfg.FrontierCap),
		limiter:  rate.NewLimiter(rate.Every(cfg.Delay()), 1),
		metrics:  m,
		logger:   slog.Default().With("component", "crawler"),
	}
	if cfg.RespectRobots {
		c.robots = newRobotsCache(fetcher, cfg.UserAgent)
	}
	return c
}

// Frontier exposes the crawl state for progress readouts.
func (c *Crawler) Frontier() *Frontier {
	return c.frontier
}

// Run crawls from the configured seeds until the frontier empties or the
// page budget is reached. It returns nil on normal termination and on
// context cancellation; the run holds no cross-run state beyond what is
// committed to storage.
func (c *Crawler) Run(ctx context.Context) error {
	for _, seed := range c.cfg.SeedURLs {
		c.frontier.Add(seed)
	}
	c.logger.Info("crawl started",
		"seeds", len(c.cfg.SeedURLs),
		"page_budget", c.cfg.PageBudget,
		"delay", c.cfg.Delay(),
	)

	for c.frontier.VisitedCount() < c.cfg.PageBudget {
		pageURL, ok := c.frontier.Next()
		if !ok {
			break
		}
		if c.frontier.Visited(pageURL) {
			continue
		}
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Info("crawl interrupted", "visited", c.frontier.VisitedCount())
			return nil
		}
		c.visit(ctx, pageURL)
		c.reportProgress()
	}

	c.logger.Info("crawl finished",
		"visited", c.frontier.VisitedCount(),
		"queued", c.frontier.Len(),
	)
	return nil
}

// visit fetches and ingests one URL. The URL counts as visited whatever
// the outcome.
func (c *Crawler) visit(ctx context.Context, pageURL string) {
	c.frontier.MarkVisited(pageURL)

	if c.robots != nil && !c.robots.Allowed(ctx, pageURL) {
		c.countFetch("robots_denied")
		c.logger.Debug("robots.txt disallows url", "url", pageURL)
		return
	}

	start := time.Now()
	body, err := c.fetcher.Fetch(ctx, pageURL)
	if c.metrics != nil {
		c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.countFetch("fetch_error")
		c.logger.Debug("fetch failed", "url", pageURL, "error", err)
		return
	}
	c.countFetch("ok")

	page, err := ExtractPage(body, pageURL)
	if err != nil {
		c.logger.Debug("extraction failed", "url", pageURL, "error", err)
		return
	}

	counts := tokenizer.Tokenize(page.Text)
	if len(counts) > 0 {
		doc := storage.Page{
			URL:        NormalizeURL(pageURL),
			Title:      page.Title,
			Content:    page.Text,
			Popularity: syntheticPopularity(),
		}
		switch _, err := c.store.SavePage(ctx, doc, counts, page.Images); {
		case err == nil:
			if c.metrics != nil {
				c.metrics.PagesIndexedTotal.Inc()
			}
			c.logger.Info("page indexed", "url", pageURL, "terms", len(counts), "links", len(page.Links))
		case errors.Is(err, apperr.ErrDuplicateURL):
			c.logger.Debug("url already indexed", "url", pageURL)
		default:
			c.logger.Error("ingest failed", "url", pageURL, "error", err)
		}
	}

	for _, link := range page.Links {
		if !c.frontier.Add(link) && c.frontier.Len() >= c.cfg.FrontierCap {
			break
		}
	}
}

func (c *Crawler) countFetch(outcome string) {
	if c.metrics != nil {
		c.metrics.PagesFetchedTotal.WithLabelValues(outcome).Inc()
	}
}

func (c *Crawler) reportProgress() {
	if c.metrics == nil {
		return
	}
	c.metrics.FrontierSize.Set(float64(c.frontier.Len()))
	c.metrics.VisitedURLs.Set(float64(c.frontier.VisitedCount()))
}

// syntheticPopularity assigns the placeholder authority weight. A real
// signal such as inbound-link count can replace this without touching the
// scoring formula.
func syntheticPopularity() int64 {
	return 1000 + rand.Int64N(99001)
}
