package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hdmon/uaa/internal/middleware"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	// Logger is the structured logger for router events.
	Logger *slog.Logger

	// AuthMiddleware is the authentication middleware to use for protected routes.
	AuthMiddleware echo.MiddlewareFunc

	// RateLimitMiddleware is the rate limiting middleware.
	RateLimitMiddleware echo.MiddlewareFunc

	// CORSConfig is the CORS configuration.
	CORSConfig middleware.CORSConfig

	// LoggingConfig is the logging middleware configuration.
	LoggingConfig middleware.LoggingConfig

	// RecoveryConfig is the recovery middleware configuration.
	RecoveryConfig middleware.RecoveryConfig

	// APIPrefix is the prefix for all API routes.
	// Default is "/api/v1".
	APIPrefix string
}

// DefaultRouterConfig returns a RouterConfig with sensible defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		Logger:         slog.Default(),
		CORSConfig:     middleware.DefaultCORSConfig(),
		LoggingConfig:  middleware.DefaultLoggingConfig(),
		RecoveryConfig: middleware.DefaultRecoveryConfig(),
		APIPrefix:      "/api/v1",
	}
}

// Router manages HTTP route groups and middleware chains.
type Router struct {
	echo   *echo.Echo
	config RouterConfig
	logger *slog.Logger

	// Route groups
	public *echo.Group
	auth   *echo.Group
	admin  *echo.Group
}

// NewRouter creates a new router with the given configuration.
func NewRouter(e *echo.Echo, config RouterConfig) *Router {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.APIPrefix == "" {
		config.APIPrefix = "/api/v1"
	}

	r := &Router{
		echo:   e,
		config: config,
		logger: config.Logger,
	}

	r.setupGlobalMiddleware()
	r.setupRouteGroups()

	return r
}

// setupGlobalMiddleware applies global middleware to the Echo instance.
func (r *Router) setupGlobalMiddleware() {
	// Recovery middleware (must be first to catch all panics)
	r.echo.Use(middleware.RecoveryWithConfig(r.config.RecoveryConfig))

	// CORS middleware
	r.echo.Use(middleware.CORS(r.config.CORSConfig))

	// Logging middleware
	r.echo.Use(middleware.Logging(r.config.LoggingConfig))

	// Rate limiting middleware (if configured)
	if r.config.RateLimitMiddleware != nil {
		r.echo.Use(r.config.RateLimitMiddleware)
	}
}

// setupRouteGroups creates the route group hierarchy.
func (r *Router) setupRouteGroups() {
	// Public routes - no authentication required
	r.public = r.echo.Group(r.config.APIPrefix)

	// Authenticated routes - require a valid bearer token
	if r.config.AuthMiddleware != nil {
		r.auth = r.public.Group("", r.config.AuthMiddleware)
	} else {
		// If no auth middleware, authenticated group is same as public.
		// Admin routes still require a role claim, so without a token
		// validator they reject every request.
		r.auth = r.public
		r.logger.Warn("no auth middleware configured, authenticated routes are public and admin routes are unreachable without a token validator")
	}

	// Administrative routes - require the admin realm role
	r.admin = r.auth.Group("", middleware.RequireAdmin())
}

// Echo returns the underlying Echo instance.
func (r *Router) Echo() *echo.Echo {
	return r.echo
}

// Public returns the public route group (no authentication required).
// Use for: directory lookups, existence checks, health checks, etc.
func (r *Router) Public() *echo.Group {
	return r.public
}

// Auth returns the authenticated route group (requires valid bearer token).
func (r *Router) Auth() *echo.Group {
	return r.auth
}

// Admin returns the administrative route group.
// Requires both authentication and the admin realm role.
// Use for: user creation, updates, deletion, listings.
func (r *Router) Admin() *echo.Group {
	return r.admin
}

// RouteRegistrar defines the interface for registering routes.
type RouteRegistrar interface {
	RegisterRoutes(r *Router)
}

// RegisterAll registers all route registrars with the router.
func (r *Router) RegisterAll(registrars ...RouteRegistrar) {
	for _, registrar := range registrars {
		registrar.RegisterRoutes(r)
	}
}

// PrintRoutes logs all registered routes (for debugging).
func (r *Router) PrintRoutes() {
	for _, route := range r.echo.Routes() {
		r.logger.Debug("registered route",
			slog.String("method", route.Method),
			slog.String("path", route.Path),
			slog.String("name", route.Name),
		)
	}
}

// RegisterMetricsEndpoint registers the Prometheus metrics endpoint.
func (r *Router) RegisterMetricsEndpoint() {
	r.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
