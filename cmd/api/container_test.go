package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdmon/uaa/internal/config"
	"github.com/hdmon/uaa/internal/infrastructure/httpserver"
)

func TestWithLogger(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	c := &Container{Logger: slog.Default()}

	WithLogger(logger)(c)

	assert.Same(t, logger, c.Logger)
}

func TestValidateWiring_ReportsMissingComponents(t *testing.T) {
	c := &Container{
		Config: config.DefaultConfig(),
		Logger: slog.New(slog.DiscardHandler),
	}

	err := c.validateWiring()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongodb client not initialized")
	assert.Contains(t, err.Error(), "redis client not initialized")
	assert.Contains(t, err.Error(), "user repository not initialized")
	assert.Contains(t, err.Error(), "user service not initialized")
}

func TestValidateWiring_ProductionRequiresTokenValidator(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.App.Environment = "production"

	c := &Container{
		Config: cfg,
		Logger: slog.New(slog.DiscardHandler),
	}

	err := c.validateWiring()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token validator is required in production")
}

func TestGetHealthStatus_UninitializedComponents(t *testing.T) {
	c := &Container{
		Config: config.DefaultConfig(),
		Logger: slog.New(slog.DiscardHandler),
	}

	components := c.GetHealthStatus(t.Context())
	require.Len(t, components, 2)

	for _, component := range components {
		assert.Equal(t, httpserver.StatusUnhealthy, component.Status)
		assert.Equal(t, "not initialized", component.Message)
	}

	assert.False(t, c.IsReady(t.Context()))
}

func TestClose_WithoutResources(t *testing.T) {
	c := &Container{
		Config: config.DefaultConfig(),
		Logger: slog.New(slog.DiscardHandler),
	}

	assert.NoError(t, c.Close())
}
