// Package cache provides Redis-backed caches for hot directory queries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	userapp "github.com/hdmon/uaa/internal/application/user"
)

const (
	defaultExistsKeyPrefix = "directory:exists:"
	defaultExistsTTL       = 5 * time.Minute
)

// RedisExistenceCache implements user.ExistenceCache on Redis. Only
// positive answers are stored and every entry expires, so a deleted user
// is reported as taken for at most the TTL.
type RedisExistenceCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// ExistenceCacheConfig contains configuration for RedisExistenceCache.
type ExistenceCacheConfig struct {
	Client    *redis.Client
	KeyPrefix string
	TTL       time.Duration
}

// NewRedisExistenceCache creates a new Redis-based existence cache.
func NewRedisExistenceCache(cfg ExistenceCacheConfig) *RedisExistenceCache {
	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = defaultExistsKeyPrefix
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultExistsTTL
	}

	return &RedisExistenceCache{
		client:    cfg.Client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisExistenceCache) loginKey(login string) string {
	return c.keyPrefix + "login:" + strings.ToLower(login)
}

func (c *RedisExistenceCache) mobileKey(mobile string) string {
	return c.keyPrefix + "mobile:" + mobile
}

// LoginExists reports whether a positive answer is cached for login.
func (c *RedisExistenceCache) LoginExists(ctx context.Context, login string) (bool, error) {
	if login == "" {
		return false, errors.New("login is required")
	}

	count, err := c.client.Exists(ctx, c.loginKey(login)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cached login: %w", err)
	}
	return count > 0, nil
}

// MarkLoginExists records a positive answer for login.
func (c *RedisExistenceCache) MarkLoginExists(ctx context.Context, login string) error {
	if login == "" {
		return errors.New("login is required")
	}

	if err := c.client.Set(ctx, c.loginKey(login), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache login existence: %w", err)
	}
	return nil
}

// MobileOwner returns the cached owner details for mobile, or nil on a miss.
func (c *RedisExistenceCache) MobileOwner(ctx context.Context, mobile string) (*userapp.MobileExistsResult, error) {
	if mobile == "" {
		return nil, errors.New("mobile is required")
	}

	payload, err := c.client.Get(ctx, c.mobileKey(mobile)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached mobile owner: %w", err)
	}

	var res userapp.MobileExistsResult
	if err = json.Unmarshal(payload, &res); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return nil, nil
	}
	return &res, nil
}

// MarkMobileExists records a positive answer for mobile.
func (c *RedisExistenceCache) MarkMobileExists(
	ctx context.Context,
	mobile string,
	res userapp.MobileExistsResult,
) error {
	if mobile == "" {
		return errors.New("mobile is required")
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode mobile owner: %w", err)
	}

	if err = c.client.Set(ctx, c.mobileKey(mobile), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache mobile existence: %w", err)
	}
	return nil
}

// Invalidate drops the cached entries for a login and mobile pair. Called
// after deletes so a removed user stops being reported as taken.
func (c *RedisExistenceCache) Invalidate(ctx context.Context, login, mobile string) error {
	keys := make([]string, 0, 2)
	if login != "" {
		keys = append(keys, c.loginKey(login))
	}
	if mobile != "" {
		keys = append(keys, c.mobileKey(mobile))
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate existence cache: %w", err)
	}
	return nil
}
