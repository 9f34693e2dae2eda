package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/hdmon/uaa/internal/middleware"
)

func TestDefaultRateLimitConfig(t *testing.T) {
	config := middleware.DefaultRateLimitConfig()

	assert.Equal(t, middleware.DefaultRateLimit, config.Limit)
	assert.Equal(t, middleware.DefaultRateLimitWindow, config.Window)
	assert.Equal(t, middleware.DefaultBurstSize, config.BurstSize)
	assert.Contains(t, config.SkipPaths, "/health")
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	e := echo.New()
	store := middleware.NewMemoryRateLimitStore()

	config := middleware.RateLimitConfig{
		Store:     store,
		Limit:     5,
		BurstSize: 0,
		Window:    time.Minute,
	}

	e.Use(middleware.RateLimit(config))
	e.GET("/lookup", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for range 5 {
		req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	e := echo.New()
	store := middleware.NewMemoryRateLimitStore()

	config := middleware.RateLimitConfig{
		Store:     store,
		Limit:     2,
		BurstSize: 0,
		Window:    time.Minute,
	}

	e.Use(middleware.RateLimit(config))
	e.GET("/lookup", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	var lastCode int
	var lastBody string
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		lastCode = rec.Code
		lastBody = rec.Body.String()
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
	assert.Contains(t, lastBody, "RATE_LIMIT_EXCEEDED")
}

func TestRateLimit_SetsHeaders(t *testing.T) {
	e := echo.New()
	store := middleware.NewMemoryRateLimitStore()

	config := middleware.RateLimitConfig{
		Store:     store,
		Limit:     10,
		BurstSize: 0,
		Window:    time.Minute,
	}

	e.Use(middleware.RateLimit(config))
	e.GET("/lookup", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "10", rec.Header().Get("X-Ratelimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-Ratelimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-Ratelimit-Reset"))
}

func TestRateLimit_SkipsConfiguredPaths(t *testing.T) {
	e := echo.New()
	store := middleware.NewMemoryRateLimitStore()

	config := middleware.RateLimitConfig{
		Store:     store,
		Limit:     1,
		BurstSize: 0,
		Window:    time.Minute,
		SkipPaths: []string{"/health"},
	}

	e.Use(middleware.RateLimit(config))
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for range 5 {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_NoStoreDisablesLimiting(t *testing.T) {
	e := echo.New()

	config := middleware.RateLimitConfig{
		Limit:  1,
		Window: time.Minute,
	}

	e.Use(middleware.RateLimit(config))
	e.GET("/lookup", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for range 10 {
		req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_KeyedBySubject(t *testing.T) {
	e := echo.New()
	store := middleware.NewMemoryRateLimitStore()

	validator := &mockTokenValidator{
		claims: &middleware.TokenClaims{Subject: "subject-a"},
	}

	config := middleware.RateLimitConfig{
		Store:     store,
		Limit:     1,
		BurstSize: 0,
		Window:    time.Minute,
	}

	e.Use(middleware.Auth(middleware.AuthConfig{TokenValidator: validator}))
	e.Use(middleware.RateLimit(config))
	e.GET("/lookup", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer token")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())

	// A different subject carries its own counter
	validator.claims = &middleware.TokenClaims{Subject: "subject-b"}
	assert.Equal(t, http.StatusOK, send())
}

func TestRateLimitByEndpoint_SeparateCounters(t *testing.T) {
	e := echo.New()
	store := middleware.NewMemoryRateLimitStore()

	config := middleware.RateLimitConfig{
		Store:     store,
		Limit:     1,
		BurstSize: 0,
		Window:    time.Minute,
	}

	e.Use(middleware.RateLimitByEndpoint(config))
	e.GET("/first", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/second", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("/first"))
	assert.Equal(t, http.StatusTooManyRequests, send("/first"))
	assert.Equal(t, http.StatusOK, send("/second"))
}

func TestMemoryRateLimitStore(t *testing.T) {
	store := middleware.NewMemoryRateLimitStore()
	ctx := t.Context()

	count, err := store.Increment(ctx, "key", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.Increment(ctx, "key", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	current, err := store.GetCount(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), current)

	ttl, err := store.GetTTL(ctx, "key")
	assert.NoError(t, err)
	assert.Positive(t, ttl)

	store.Reset()

	current, err = store.GetCount(ctx, "key")
	assert.NoError(t, err)
	assert.Zero(t, current)
}
