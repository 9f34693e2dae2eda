package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdmon/uaa/internal/config"
	httphandler "github.com/hdmon/uaa/internal/handler/http"
)

// newTestContainer builds a container with just enough wiring to register
// routes. No backing stores are connected, so only routing behavior is
// exercised here.
func newTestContainer(t *testing.T) *Container {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.RateLimit.Enabled = false

	return &Container{
		Config:           cfg,
		Logger:           slog.New(slog.DiscardHandler),
		UserHandler:      httphandler.NewUserHandler(nil),
		DirectoryHandler: httphandler.NewDirectoryHandler(nil),
	}
}

func TestSetupRoutes_RegistersDirectoryRoutes(t *testing.T) {
	c := newTestContainer(t)

	srv := SetupRoutes(c)
	require.NotNil(t, srv)

	paths := make(map[string]bool)
	for _, route := range srv.Echo().Routes() {
		paths[route.Method+" "+route.Path] = true
	}

	assert.True(t, paths["GET /api/v1/directory/by-login/:login"])
	assert.True(t, paths["GET /api/v1/directory/by-email"])
	assert.True(t, paths["GET /api/v1/directory/by-mobile/:mobile"])
	assert.True(t, paths["GET /api/v1/directory/by-id/:id"])
	assert.True(t, paths["GET /api/v1/directory/exists/login/:login"])
	assert.True(t, paths["GET /api/v1/directory/exists/mobile/:mobile"])
	assert.True(t, paths["POST /api/v1/users"])
	assert.True(t, paths["DELETE /api/v1/users/:login"])
}

func TestSetupRoutes_MetricsEndpoint(t *testing.T) {
	c := newTestContainer(t)
	srv := SetupRoutes(c)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildAuthMiddleware_NilWithoutValidator(t *testing.T) {
	c := newTestContainer(t)

	assert.Nil(t, buildAuthMiddleware(c))
}

func TestBuildRateLimitMiddleware_Disabled(t *testing.T) {
	c := newTestContainer(t)

	assert.Nil(t, buildRateLimitMiddleware(c))
}

func TestBuildRateLimitMiddleware_Enabled(t *testing.T) {
	c := newTestContainer(t)
	c.Config.RateLimit.Enabled = true

	assert.NotNil(t, buildRateLimitMiddleware(c))
}
