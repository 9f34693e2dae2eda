package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/hdmon/uaa/internal/application/user"
	"github.com/hdmon/uaa/internal/infrastructure/cache"
	"github.com/hdmon/uaa/tests/testutil"
)

func setupExistenceCache(t *testing.T) *cache.RedisExistenceCache {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, prefix := testutil.SetupTestRedisWithPrefix(t)

	return cache.NewRedisExistenceCache(cache.ExistenceCacheConfig{
		Client:    client,
		KeyPrefix: prefix,
		TTL:       time.Minute,
	})
}

func TestRedisExistenceCache_LoginRoundTrip(t *testing.T) {
	c := setupExistenceCache(t)
	ctx := context.Background()

	exists, err := c.LoginExists(ctx, "jdoe")
	require.NoError(t, err)
	assert.False(t, exists, "unknown login must be a miss")

	require.NoError(t, c.MarkLoginExists(ctx, "jdoe"))

	exists, err = c.LoginExists(ctx, "jdoe")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisExistenceCache_LoginKeysAreCaseInsensitive(t *testing.T) {
	c := setupExistenceCache(t)
	ctx := context.Background()

	require.NoError(t, c.MarkLoginExists(ctx, "JDoe"))

	exists, err := c.LoginExists(ctx, "jdoe")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisExistenceCache_MobileRoundTrip(t *testing.T) {
	c := setupExistenceCache(t)
	ctx := context.Background()

	res, err := c.MobileOwner(ctx, "+84901234567")
	require.NoError(t, err)
	assert.Nil(t, res, "unknown mobile must be a miss")

	stored := userapp.MobileExistsResult{Exists: true, UserID: 7, Login: "jdoe", Activated: true}
	require.NoError(t, c.MarkMobileExists(ctx, "+84901234567", stored))

	res, err = c.MobileOwner(ctx, "+84901234567")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, stored, *res)
}

func TestRedisExistenceCache_Invalidate(t *testing.T) {
	c := setupExistenceCache(t)
	ctx := context.Background()

	require.NoError(t, c.MarkLoginExists(ctx, "jdoe"))
	require.NoError(t, c.MarkMobileExists(ctx, "+84901234567", userapp.MobileExistsResult{Exists: true}))

	require.NoError(t, c.Invalidate(ctx, "jdoe", "+84901234567"))

	exists, err := c.LoginExists(ctx, "jdoe")
	require.NoError(t, err)
	assert.False(t, exists)

	res, err := c.MobileOwner(ctx, "+84901234567")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestRedisExistenceCache_EmptyKeysRejected(t *testing.T) {
	c := setupExistenceCache(t)
	ctx := context.Background()

	_, err := c.LoginExists(ctx, "")
	assert.Error(t, err)

	assert.Error(t, c.MarkLoginExists(ctx, ""))

	_, err = c.MobileOwner(ctx, "")
	assert.Error(t, err)
}
