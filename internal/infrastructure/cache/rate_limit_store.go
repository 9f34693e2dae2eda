package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRateLimitKeyPrefix = "directory:ratelimit:"

// RedisRateLimitStore implements middleware.RateLimitStore on Redis.
// Counters live in a fixed window set by the first increment.
type RedisRateLimitStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimitStore creates a new Redis-based rate limit store.
func NewRedisRateLimitStore(client *redis.Client, keyPrefix string) *RedisRateLimitStore {
	if keyPrefix == "" {
		keyPrefix = defaultRateLimitKeyPrefix
	}
	return &RedisRateLimitStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Increment increments the counter for the given key and starts the
// window on the first request.
func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := s.keyPrefix + key

	count, err := s.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	if count == 1 {
		if expireErr := s.client.Expire(ctx, fullKey, window).Err(); expireErr != nil {
			return count, fmt.Errorf("failed to set expiration: %w", expireErr)
		}
	}

	return count, nil
}

// GetCount returns the current count for the given key.
func (s *RedisRateLimitStore) GetCount(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Get(ctx, s.keyPrefix+key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get counter: %w", err)
	}
	return count, nil
}

// GetTTL returns the remaining TTL for the given key.
func (s *RedisRateLimitStore) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get counter ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
