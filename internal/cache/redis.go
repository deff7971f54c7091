package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultTTL for cached pages. Box scores are final, but a bounded TTL
// keeps the cache from growing without limit.
const DefaultTTL = 24 * time.Hour

// RedisCache stores fetched pages so re-runs skip the network. The
// pipeline works fine without one; it exists to make repeated backfills
// of the same seasons cheap.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCache connects to Redis using a URL like "redis://localhost:6379/0"
func NewRedisCache(redisURL string, logger zerolog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    DefaultTTL,
		logger: logger.With().Str("component", "cache").Logger(),
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Get retrieves a cached page. A cache error is treated as a miss; the
// caller falls through to the network.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := rc.client.Get(ctx, pageKey(key)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		rc.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return "", false
	}
	return val, true
}

// Set stores a page. Failures are logged and swallowed; caching is
// best effort.
func (rc *RedisCache) Set(ctx context.Context, key, value string) {
	if err := rc.client.Set(ctx, pageKey(key), value, rc.ttl).Err(); err != nil {
		rc.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func pageKey(path string) string {
	return "page:" + path
}
