// Package redis caches computed trend analyses.  Trend analysis is the only
// expensive call in the engine, and its inputs change at most daily, so a
// short-TTL cache absorbs repeated dashboard reads.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/activsafe/ActivSafe-Platform/internal/config"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

// NewClient opens a go-redis client and verifies connectivity with one ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "redis unreachable")
	}
	return client, nil
}

// TrendCache stores serialized trend analyses under prefixed keys.
type TrendCache struct {
	client  redis.Cmdable
	prefix  string
	ttl     time.Duration
	log     logging.Logger
	metrics *prometheus.Metrics
	group   singleflight.Group
}

// TrendCacheOption configures a TrendCache.
type TrendCacheOption func(*TrendCache)

// WithMetrics attaches hit/miss counters.
func WithMetrics(m *prometheus.Metrics) TrendCacheOption {
	return func(c *TrendCache) { c.metrics = m }
}

// NewTrendCache constructs a TrendCache with the given key prefix and TTL.
func NewTrendCache(client redis.Cmdable, prefix string, ttl time.Duration, log logging.Logger, opts ...TrendCacheOption) *TrendCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &TrendCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    log.Named("trendcache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TrendCache) key(k string) string {
	return fmt.Sprintf("%s:trend:%s", c.prefix, k)
}

// jitteredTTL spreads expirations over ±10% so simultaneous fills do not all
// expire in the same instant.
func (c *TrendCache) jitteredTTL() time.Duration {
	if c.ttl <= 0 {
		return c.ttl
	}
	jitter := time.Duration(rand.Int63n(int64(c.ttl)/5+1)) - c.ttl/10
	return c.ttl + jitter
}

// Get returns the cached analysis for the key, reporting whether one was
// present.  Transport failures are errors; a plain miss is not.
func (c *TrendCache) Get(ctx context.Context, key string) (*risk.TrendAnalysisResult, bool, error) {
	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		c.recordAccess(false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeCacheError, "trend cache read failed")
	}

	var result risk.TrendAnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		// A corrupt entry behaves like a miss; the caller recomputes.
		c.log.Warn("discarding corrupt trend cache entry", logging.String("key", key), logging.Err(err))
		c.recordAccess(false)
		return nil, false, nil
	}
	c.recordAccess(true)
	return &result, true, nil
}

// Set stores the analysis under the key with a jittered TTL.
func (c *TrendCache) Set(ctx context.Context, key string, result *risk.TrendAnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "trend result serialization failed")
	}
	if err := c.client.Set(ctx, c.key(key), payload, c.jitteredTTL()).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "trend cache write failed")
	}
	return nil
}

// Delete removes the cached analysis for the key.
func (c *TrendCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "trend cache delete failed")
	}
	return nil
}

// GetOrCompute returns the cached analysis or computes and stores it.
// Concurrent callers for the same key share one computation via
// singleflight.  Cache failures degrade to computing directly: the cache is
// an accelerator, never a dependency.
func (c *TrendCache) GetOrCompute(
	ctx context.Context,
	key string,
	compute func(ctx context.Context) (*risk.TrendAnalysisResult, error),
) (*risk.TrendAnalysisResult, error) {
	if cached, ok, err := c.Get(ctx, key); err == nil && ok {
		return cached, nil
	} else if err != nil {
		c.log.Warn("trend cache read degraded", logging.Err(err))
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, result); err != nil {
			c.log.Warn("trend cache fill degraded", logging.Err(err))
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*risk.TrendAnalysisResult), nil
}

func (c *TrendCache) recordAccess(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheAccess(hit)
	}
}
