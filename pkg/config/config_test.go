package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Crawler.PageBudget != 15000 {
		t.Errorf("Crawler.PageBudget = %d, want 15000", cfg.Crawler.PageBudget)
	}
	if cfg.Crawler.FrontierCap != 5000 {
		t.Errorf("Crawler.FrontierCap = %d, want 5000", cfg.Crawler.FrontierCap)
	}
	if got := cfg.Crawler.FetchTimeout(); got != 7*time.Second {
		t.Errorf("Crawler.FetchTimeout() = %v, want 7s", got)
	}
	if got := cfg.Crawler.Delay(); got != 200*time.Millisecond {
		t.Errorf("Crawler.Delay() = %v, want 200ms", got)
	}
	if cfg.Search.PageSize != 25 {
		t.Errorf("Search.PageSize = %d, want 25", cfg.Search.PageSize)
	}
	if cfg.Search.TitleQueryBonus != 100 {
		t.Errorf("Search.TitleQueryBonus = %v, want 100", cfg.Search.TitleQueryBonus)
	}
}

func TestLoadFromFile(t *testing.T) {
	data := `
server:
  port: 9000
crawler:
  pageBudget: 50
  timeoutSec: 2
  delayMs: 10
  userAgent: testbot/0.1
search:
  pageSize: 10
`
	path := filepath.Join(t.TempDir(), "webseek.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Crawler.PageBudget != 50 {
		t.Errorf("Crawler.PageBudget = %d, want 50", cfg.Crawler.PageBudget)
	}
	if got := cfg.Crawler.FetchTimeout(); got != 2*time.Second {
		t.Errorf("Crawler.FetchTimeout() = %v, want 2s", got)
	}
	if cfg.Crawler.UserAgent != "testbot/0.1" {
		t.Errorf("Crawler.UserAgent = %q", cfg.Crawler.UserAgent)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Search.PageSize != 10 {
		t.Errorf("Search.PageSize = %d, want 10", cfg.Search.PageSize)
	}
	if cfg.Search.SnippetLength != 160 {
		t.Errorf("Search.SnippetLength = %d, want 160", cfg.Search.SnippetLength)
	}
	if cfg.Postgres.Database != "webseek" {
		t.Errorf("Postgres.Database = %q, want webseek", cfg.Postgres.Database)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/webseek.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WS_SERVER_PORT", "7777")
	t.Setenv("WS_POSTGRES_HOST", "db.internal")
	t.Setenv("WS_CRAWLER_SEED_URLS", "https://a.example/,https://b.example/")
	t.Setenv("WS_CRAWLER_PAGE_BUDGET", "123")
	t.Setenv("WS_CRAWLER_DELAY_MS", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q", cfg.Postgres.Host)
	}
	if len(cfg.Crawler.SeedURLs) != 2 || cfg.Crawler.SeedURLs[1] != "https://b.example/" {
		t.Errorf("Crawler.SeedURLs = %v", cfg.Crawler.SeedURLs)
	}
	if cfg.Crawler.PageBudget != 123 {
		t.Errorf("Crawler.PageBudget = %d, want 123", cfg.Crawler.PageBudget)
	}
	if got := cfg.Crawler.Delay(); got != 5*time.Millisecond {
		t.Errorf("Crawler.Delay() = %v, want 5ms", got)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432,
		User: "webseek", Password: "localdev",
		Database: "webseek", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=webseek password=localdev dbname=webseek sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
