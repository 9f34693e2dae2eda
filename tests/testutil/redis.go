package testutil

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Redis test configuration constants.
const (
	redisCtxTimeout                = 10 * time.Second
	redisContainerStartupTimeout   = 60 * time.Second
	redisContainerTerminateTimeout = 5 * time.Second
	redisPingTimeout               = 2 * time.Second
	redisPingRetryDelay            = 500 * time.Millisecond
	redisPingRetries               = 5
	redisContainerMemoryLimit      = 128 * 1024 * 1024 // 128MB
	redisSharedPoolSize            = 50
	redisTestPoolSize              = 10
)

// redisContainer holds the singleton Redis container shared by cache tests.
type redisContainer struct {
	container testcontainers.Container
	addr      string
	client    *redis.Client
	mu        sync.Mutex
}

var (
	sharedRedis   *redisContainer
	sharedRedisMu sync.Mutex
)

// getSharedRedis returns the singleton Redis container, restarting it if a
// previous run left it in a non-running state.
func getSharedRedis(ctx context.Context) (*redisContainer, error) {
	sharedRedisMu.Lock()
	defer sharedRedisMu.Unlock()

	if sharedRedis != nil && !sharedRedis.healthy(ctx) {
		sharedRedis.terminate()
		sharedRedis = nil
	}

	if sharedRedis == nil {
		startupCtx, cancel := context.WithTimeout(context.Background(), redisContainerStartupTimeout)
		defer cancel()

		rc, err := startRedisContainer(startupCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to start Redis container: %w", err)
		}
		sharedRedis = rc
	}

	return sharedRedis, nil
}

func (rc *redisContainer) healthy(ctx context.Context) bool {
	if rc.container == nil {
		return false
	}
	state, err := rc.container.State(ctx)
	return err == nil && state.Running
}

// terminate stops a crashed container and disconnects its shared client.
func (rc *redisContainer) terminate() {
	if rc.client != nil {
		_ = rc.client.Close()
	}
	if rc.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisContainerTerminateTimeout)
		defer cancel()
		_ = rc.container.Terminate(ctx)
	}
}

// startRedisContainer starts a memory-capped Redis container for the
// existence cache and rate limit store tests.
func startRedisContainer(ctx context.Context) (*redisContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		HostConfigModifier: func(hc *container.HostConfig) {
			hc.Memory = redisContainerMemoryLimit
			hc.MemorySwap = redisContainerMemoryLimit
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(redisContainerStartupTimeout),
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(redisContainerStartupTimeout),
		),
	}

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Redis container: %w", err)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := cont.MappedPort(ctx, "6379")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &redisContainer{
		container: cont,
		addr:      net.JoinHostPort(host, port.Port()),
	}, nil
}

// warmClient verifies the container accepts connections, keeping a shared
// client around so later tests skip the retry loop.
func (rc *redisContainer) warmClient(ctx context.Context) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := rc.client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return nil
		}
		_ = rc.client.Close()
		rc.client = nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rc.addr,
		PoolSize: redisSharedPoolSize,
	})

	var pingErr error
	for i := range redisPingRetries {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), redisPingTimeout)
		pingErr = client.Ping(pingCtx).Err()
		pingCancel()
		if pingErr == nil {
			break
		}
		if i < redisPingRetries-1 {
			time.Sleep(redisPingRetryDelay)
		}
	}
	if pingErr != nil {
		_ = client.Close()
		return fmt.Errorf("failed to ping Redis after %d retries: %w", redisPingRetries, pingErr)
	}

	rc.client = client
	return nil
}

// SetupTestRedis creates a Redis client backed by the shared container.
// Each test gets its own client so cleanup stays independent.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), redisCtxTimeout)
	defer cancel()

	rc, err := getSharedRedis(ctx)
	if err != nil {
		t.Fatalf("Failed to get shared Redis container: %v", err)
	}

	if err := rc.warmClient(ctx); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	testClient := redis.NewClient(&redis.Options{
		Addr:     rc.addr,
		PoolSize: redisTestPoolSize,
	})

	if err := testClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to ping Redis: %v", err)
	}

	// Cleanup: flush DB and close client after test
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), redisCtxTimeout)
		defer cleanupCancel()
		_ = testClient.FlushDB(cleanupCtx).Err()
		_ = testClient.Close()
	})

	return testClient
}

// SetupTestRedisWithPrefix creates a Redis client and returns a unique key
// prefix so parallel tests do not collide on keys.
func SetupTestRedisWithPrefix(t *testing.T) (*redis.Client, string) {
	t.Helper()

	client := SetupTestRedis(t)
	prefix := fmt.Sprintf("uaa_test:%s:", t.Name())

	return client, prefix
}
