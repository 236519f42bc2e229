// Package cache provides an optional Redis-backed cache for summarize
// responses. The summarization core stays stateless; this caches the service
// response only, keyed by a hash of the input text and top-k, and degrades
// to pass-through when Redis is unavailable.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/notewell/notesbot/internal/bot"
	"github.com/notewell/notesbot/pkg/config"
	pkgredis "github.com/notewell/notesbot/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "summary:"

// SummaryCache caches SummarizeResponse values in Redis with TTL. Concurrent
// requests for the same (text, k) pair collapse into one computation via
// singleflight.
type SummaryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a SummaryCache over the given Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *SummaryCache {
	return &SummaryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "summary-cache"),
	}
}

// Get returns the cached response for (text, k), if present.
func (c *SummaryCache) Get(ctx context.Context, text string, k int) (*bot.SummarizeResponse, bool) {
	key := c.buildKey(text, k)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var resp bot.SummarizeResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "key", key)
	return &resp, true
}

// Set stores a response under (text, k) with the configured TTL. Failures
// are logged, never surfaced.
func (c *SummaryCache) Set(ctx context.Context, text string, k int, resp *bot.SummarizeResponse) {
	key := c.buildKey(text, k)
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached response or computes and caches it,
// deduplicating concurrent computations for the same key. The bool reports
// whether the value came from cache.
func (c *SummaryCache) GetOrCompute(
	ctx context.Context,
	text string,
	k int,
	computeFn func() (*bot.SummarizeResponse, error),
) (*bot.SummarizeResponse, bool, error) {
	if resp, ok := c.Get(ctx, text, k); ok {
		return resp, true, nil
	}
	key := c.buildKey(text, k)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if resp, ok := c.Get(ctx, text, k); ok {
			return resp, nil
		}
		resp, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, text, k, resp)
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*bot.SummarizeResponse), false, nil
}

// Invalidate removes all cached summaries.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating summary cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *SummaryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *SummaryCache) buildKey(text string, k int) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s%x:k=%d", keyPrefix, hash[:16], k)
}
