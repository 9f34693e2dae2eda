package main

import (
	"github.com/labstack/echo/v4"

	"github.com/hdmon/uaa/internal/infrastructure/httpserver"
	"github.com/hdmon/uaa/internal/middleware"
)

// SetupRoutes builds the server, applies the middleware chain and registers
// all handlers from the container.
func SetupRoutes(c *Container) *httpserver.Server {
	srv := httpserver.NewServer(httpserver.ServerConfig{
		Host:            c.Config.Server.Host,
		Port:            c.Config.Server.Port,
		ReadTimeout:     c.Config.Server.ReadTimeout,
		WriteTimeout:    c.Config.Server.WriteTimeout,
		ShutdownTimeout: c.Config.Server.ShutdownTimeout,
	}, c.Logger)

	router := httpserver.NewRouter(srv.Echo(), httpserver.RouterConfig{
		Logger:              c.Logger,
		AuthMiddleware:      buildAuthMiddleware(c),
		RateLimitMiddleware: buildRateLimitMiddleware(c),
		CORSConfig:          middleware.DefaultCORSConfig(),
		LoggingConfig: middleware.LoggingConfig{
			Logger:    c.Logger,
			SkipPaths: []string{"/health", "/ready", "/metrics"},
		},
		RecoveryConfig: middleware.RecoveryConfig{
			Logger: c.Logger,
		},
	})

	router.RegisterAll(
		c.UserHandler,
		c.DirectoryHandler,
	)

	router.RegisterMetricsEndpoint()
	router.RegisterHealthEndpointsWithChecker(c)

	if c.Config.IsDevelopment() {
		router.PrintRoutes()
	}

	return srv
}

// buildAuthMiddleware returns the bearer token middleware, or nil when
// token validation is not configured.
func buildAuthMiddleware(c *Container) echo.MiddlewareFunc {
	if c.TokenValidator == nil {
		return nil
	}

	return middleware.Auth(middleware.AuthConfig{
		Logger:         c.Logger,
		TokenValidator: c.TokenValidator,
		SkipPaths:      []string{"/health", "/ready", "/metrics"},
	})
}

// buildRateLimitMiddleware returns the Redis-backed rate limiter, or nil
// when rate limiting is disabled.
func buildRateLimitMiddleware(c *Container) echo.MiddlewareFunc {
	if !c.Config.RateLimit.Enabled {
		c.Logger.Warn("rate limiting disabled by configuration")
		return nil
	}

	return middleware.RateLimit(middleware.RateLimitConfig{
		Logger:    c.Logger,
		Store:     c.RateLimitStore,
		Limit:     c.Config.RateLimit.Requests,
		Window:    c.Config.RateLimit.Window,
		BurstSize: c.Config.RateLimit.Burst,
		SkipPaths: []string{"/health", "/ready", "/metrics"},
	})
}
