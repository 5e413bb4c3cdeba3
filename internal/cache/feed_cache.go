package cache

import (
	"context"
	"strings"
	"time"

	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/metrics"
	"go.uber.org/zap"
)

// FeedCache stores rendered feed responses for a short TTL, keyed by the
// request filter. The feed itself never caches; this sits at the HTTP
// boundary the way the client-side cache would.
type FeedCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewFeedCache creates a feed cache. A nil client disables caching:
// every Get is a miss and Set is a no-op.
func NewFeedCache(client *RedisClient, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

// Key builds a cache key from the filter parts
func Key(prefix string, parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}

// Get attempts to retrieve a cached feed response.
// Returns (payload, found).
func (fc *FeedCache) Get(ctx context.Context, key string) (string, bool) {
	if fc == nil || fc.client == nil {
		return "", false
	}

	val, err := fc.client.Get(ctx, key)
	if err != nil {
		if !IsNil(err) {
			logger.Log.Debug("Feed cache retrieval failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		metrics.Get().CacheMissesTotal.WithLabelValues("feed").Inc()
		return "", false
	}

	metrics.Get().CacheHitsTotal.WithLabelValues("feed").Inc()
	return val, true
}

// Set stores a rendered feed response. Failures are logged and
// swallowed; a broken cache must not break the feed.
func (fc *FeedCache) Set(ctx context.Context, key string, payload string) {
	if fc == nil || fc.client == nil {
		return
	}

	if err := fc.client.SetEx(ctx, key, payload, fc.ttl); err != nil {
		logger.Log.Debug("Feed cache store failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Invalidate drops cached entries by exact key
func (fc *FeedCache) Invalidate(ctx context.Context, keys ...string) {
	if fc == nil || fc.client == nil || len(keys) == 0 {
		return
	}

	if err := fc.client.Del(ctx, keys...); err != nil {
		logger.Log.Debug("Feed cache invalidation failed", zap.Error(err))
	}
}
