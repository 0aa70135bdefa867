package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"webseek/internal/api"
	"webseek/internal/crawler"
	"webseek/internal/search"
	"webseek/internal/storage"
	"webseek/pkg/config"
	"webseek/pkg/health"
	"webseek/pkg/logger"
	"webseek/pkg/metrics"
	"webseek/pkg/middleware"
	pkgpostgres "webseek/pkg/postgres"
	pkgredis "webseek/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/webseek.yaml", "path to config file")
	noCrawl := flag.Bool("no-crawl", false, "serve queries without starting the crawler")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting webseek", "port", cfg.Server.Port, "page_budget", cfg.Crawler.PageBudget)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := pkgpostgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	store := storage.New(pg)
	if err := store.Migrate(ctx); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	slog.Info("storage ready", "database", cfg.Postgres.Database)

	var queryCache *search.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		queryCache = search.NewQueryCache(redisClient, cfg.Redis)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	engine := search.NewEngine(store, cfg.Search)
	crawl := crawler.New(cfg.Crawler, store, m)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := pg.DB.PingContext(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := api.NewHandler(engine, queryCache, store, crawl.Frontier(), m)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/images", h.Images)
	mux.HandleFunc("GET /api/v1/suggest", h.Suggest)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	if !*noCrawl {
		g.Go(func() error {
			return crawl.Run(gctx)
		})
	}

	g.Go(func() error {
		slog.Info("api server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("webseek stopped")
}
