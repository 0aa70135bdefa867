package search

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"webseek/pkg/config"
	pkgredis "webseek/pkg/redis"
)

const cacheKeyPrefix = "search:"

// QueryCache caches ranked result lists in Redis. Concurrent misses for
// the same query collapse into one storage round trip via singleflight.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func NewQueryCache(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, query string) ([]Result, bool) {
	key := c.buildKey(query)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var results []Result
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return results, true
}

func (c *QueryCache) Set(ctx context.Context, query string, results []Result) {
	key := c.buildKey(query)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached results for query, or runs computeFn once
// and caches its output. The second return reports a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	computeFn func() ([]Result, error),
) ([]Result, bool, error) {
	if results, ok := c.Get(ctx, query); ok {
		return results, true, nil
	}
	key := c.buildKey(query)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.Get(ctx, query); ok {
			return results, nil
		}
		results, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, results)
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]Result), false, nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the lowercased query. Whole-query substring bonuses make
// the raw query part of ranking, so no deeper normalization is safe here.
func (c *QueryCache) buildKey(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%s%x", cacheKeyPrefix, hash[:16])
}
