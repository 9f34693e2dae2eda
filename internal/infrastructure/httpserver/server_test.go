package httpserver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hdmon/uaa/internal/infrastructure/httpserver"
	"github.com/hdmon/uaa/internal/middleware"
)

// staticTokenValidator returns the configured claims for any token.
type staticTokenValidator struct {
	claims *middleware.TokenClaims
	err    error
}

func (v *staticTokenValidator) ValidateToken(_ context.Context, _ string) (*middleware.TokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func TestDefaultServerConfig(t *testing.T) {
	config := httpserver.DefaultServerConfig()

	assert.Equal(t, httpserver.DefaultHost, config.Host)
	assert.Equal(t, httpserver.DefaultPort, config.Port)
	assert.Equal(t, 30*time.Second, config.ReadTimeout)
	assert.Equal(t, 30*time.Second, config.WriteTimeout)
	assert.Equal(t, 10*time.Second, config.ShutdownTimeout)
}

func TestNewServer(t *testing.T) {
	config := httpserver.DefaultServerConfig()
	config.Host = "127.0.0.1"
	config.Port = 9090

	server := httpserver.NewServer(config, nil)

	assert.NotNil(t, server.Echo())
	assert.Equal(t, "127.0.0.1:9090", server.Address())
	assert.True(t, server.Echo().HideBanner)
}
