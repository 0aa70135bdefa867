// Package config loads application configuration from a YAML file with
// environment-variable overrides and provides typed structs for every
// subsystem (Server, Postgres, Redis, Crawler, Search, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Crawler  CrawlerConfig  `yaml:"crawler"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig holds Redis connection and query-cache parameters. Redis is
// optional: when it is unreachable the searcher runs uncached.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// CrawlerConfig controls the background crawl loop. Durations are plain
// integers (seconds, milliseconds) so they stay editable in YAML.
type CrawlerConfig struct {
	SeedURLs      []string `yaml:"seedUrls"`
	PageBudget    int      `yaml:"pageBudget"`
	FrontierCap   int      `yaml:"frontierCap"`
	TimeoutSec    int      `yaml:"timeoutSec"`
	DelayMS       int      `yaml:"delayMs"`
	UserAgent     string   `yaml:"userAgent"`
	RespectRobots bool     `yaml:"respectRobots"`
}

// FetchTimeout returns the per-request fetch timeout.
func (c CrawlerConfig) FetchTimeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Delay returns the politeness pause between consecutive fetches.
func (c CrawlerConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// SearchConfig controls result paging, snippets, and the ranking bonus
// multipliers. The multipliers are calibration policy, not invariants.
type SearchConfig struct {
	PageSize        int     `yaml:"pageSize"`
	SnippetLength   int     `yaml:"snippetLength"`
	SuggestLimit    int     `yaml:"suggestLimit"`
	ImageLimit      int     `yaml:"imageLimit"`
	TitleTermBonus  float64 `yaml:"titleTermBonus"`
	TitleQueryBonus float64 `yaml:"titleQueryBonus"`
	URLQueryBonus   float64 `yaml:"urlQueryBonus"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment
// variable overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "webseek",
			User:            "webseek",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Crawler: CrawlerConfig{
			SeedURLs: []string{
				"https://habr.com/ru/",
				"https://www.rbc.ru/",
				"https://en.wikipedia.org/wiki/Main_Page",
			},
			PageBudget:    15000,
			FrontierCap:   5000,
			TimeoutSec:    7,
			DelayMS:       200,
			UserAgent:     "webseekbot/1.0",
			RespectRobots: true,
		},
		Search: SearchConfig{
			PageSize:        25,
			SnippetLength:   160,
			SuggestLimit:    5,
			ImageLimit:      50,
			TitleTermBonus:  20,
			TitleQueryBonus: 100,
			URLQueryBonus:   50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads WS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WS_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("WS_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("WS_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("WS_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("WS_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("WS_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("WS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("WS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("WS_CRAWLER_SEED_URLS"); v != "" {
		cfg.Crawler.SeedURLs = strings.Split(v, ",")
	}
	if v := os.Getenv("WS_CRAWLER_PAGE_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Crawler.PageBudget = n
		}
	}
	if v := os.Getenv("WS_CRAWLER_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Crawler.DelayMS = n
		}
	}
	if v := os.Getenv("WS_CRAWLER_USER_AGENT"); v != "" {
		cfg.Crawler.UserAgent = v
	}
	if v := os.Getenv("WS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
