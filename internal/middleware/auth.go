package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Context keys for authentication data.
type contextKey string

const (
	// ContextKeySubject is the context key for the token subject.
	ContextKeySubject contextKey = "subject"

	// ContextKeyUsername is the context key for username.
	ContextKeyUsername contextKey = "username"

	// ContextKeyEmail is the context key for user email.
	ContextKeyEmail contextKey = "email"

	// ContextKeyRoles is the context key for user roles.
	ContextKeyRoles contextKey = "roles"
)

// Auth errors.
var (
	ErrMissingAuthHeader       = errors.New("missing authorization header")
	ErrInvalidAuthHeader       = errors.New("invalid authorization header format")
	ErrInvalidToken            = errors.New("invalid token")
	ErrTokenExpired            = errors.New("token expired")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

// RoleAdmin is the realm role required for the administrative directory API.
const RoleAdmin = "ROLE_ADMIN"

// TokenClaims represents the claims extracted from a validated bearer token.
type TokenClaims struct {
	// Subject is the token subject (stable id at the identity provider).
	Subject string

	// Username is the preferred username.
	Username string

	// Email is the user's email address.
	Email string

	// Roles is a list of realm roles.
	Roles []string

	// ExpiresAt is the token expiration time.
	ExpiresAt time.Time
}

// TokenValidator defines the interface for validating bearer tokens.
type TokenValidator interface {
	// ValidateToken validates a token and returns the claims.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Logger is the structured logger for auth events.
	Logger *slog.Logger

	// TokenValidator validates bearer tokens.
	TokenValidator TokenValidator

	// SkipPaths are paths that don't require authentication.
	SkipPaths []string
}

// DefaultAuthConfig returns an AuthConfig with sensible defaults.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Logger:    slog.Default(),
		SkipPaths: []string{"/health", "/ready"},
	}
}

// Auth returns an authentication middleware with the given configuration.
func Auth(config AuthConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if _, ok := skipPaths[path]; ok {
				return next(c)
			}

			token, tokenErr := extractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if tokenErr != nil {
				return respondAuthError(c, tokenErr)
			}

			if config.TokenValidator == nil {
				config.Logger.Error("token validator not configured")
				return respondAuthError(c, ErrInvalidToken)
			}

			claims, validateErr := config.TokenValidator.ValidateToken(c.Request().Context(), token)
			if validateErr != nil {
				config.Logger.Warn("token validation failed",
					slog.String("error", validateErr.Error()),
					slog.String("path", path),
					slog.String("remote_ip", c.RealIP()),
				)
				return respondAuthError(c, validateErr)
			}

			enrichContext(c, claims)

			config.Logger.Debug("user authenticated",
				slog.String("subject", claims.Subject),
				slog.String("username", claims.Username),
				slog.String("path", path),
			)

			return next(c)
		}
	}
}

// extractBearerToken extracts the token from a Bearer authorization header.
func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

// enrichContext adds user information to the echo context.
func enrichContext(c echo.Context, claims *TokenClaims) {
	c.Set(string(ContextKeySubject), claims.Subject)
	c.Set(string(ContextKeyUsername), claims.Username)
	c.Set(string(ContextKeyEmail), claims.Email)
	c.Set(string(ContextKeyRoles), claims.Roles)
}

// respondAuthError sends an authentication error response.
func respondAuthError(c echo.Context, err error) error {
	code := "UNAUTHORIZED"
	message := "Authentication required"
	status := http.StatusUnauthorized

	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		message = "Missing authorization header"
	case errors.Is(err, ErrInvalidAuthHeader):
		message = "Invalid authorization header format"
	case errors.Is(err, ErrTokenExpired):
		message = "Token has expired"
		code = "TOKEN_EXPIRED"
	case errors.Is(err, ErrInvalidToken):
		message = "Invalid token"
	case errors.Is(err, ErrInsufficientPermissions):
		message = "Insufficient permissions"
		code = "FORBIDDEN"
		status = http.StatusForbidden
	}

	return c.JSON(status, map[string]any{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// GetSubject extracts the token subject from the echo context.
func GetSubject(c echo.Context) string {
	if sub, ok := c.Get(string(ContextKeySubject)).(string); ok {
		return sub
	}
	return ""
}

// GetUsername extracts the username from the echo context.
func GetUsername(c echo.Context) string {
	if username, ok := c.Get(string(ContextKeyUsername)).(string); ok {
		return username
	}
	return ""
}

// GetEmail extracts the email from the echo context.
func GetEmail(c echo.Context) string {
	if email, ok := c.Get(string(ContextKeyEmail)).(string); ok {
		return email
	}
	return ""
}

// GetRoles extracts the user roles from the echo context.
func GetRoles(c echo.Context) []string {
	if roles, ok := c.Get(string(ContextKeyRoles)).([]string); ok {
		return roles
	}
	return nil
}

// HasRole checks if the current user has the specified role.
func HasRole(c echo.Context, role string) bool {
	return slices.Contains(GetRoles(c), role)
}

// HasAnyRole checks if the current user has any of the specified roles.
func HasAnyRole(c echo.Context, roles ...string) bool {
	for _, role := range roles {
		if HasRole(c, role) {
			return true
		}
	}
	return false
}

// RequireRole returns a middleware that requires the user to have a specific role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !HasRole(c, role) {
				return respondAuthError(c, ErrInsufficientPermissions)
			}
			return next(c)
		}
	}
}

// RequireAnyRole returns a middleware that requires the user to have any of the specified roles.
func RequireAnyRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !HasAnyRole(c, roles...) {
				return respondAuthError(c, ErrInsufficientPermissions)
			}
			return next(c)
		}
	}
}

// RequireAdmin returns a middleware that guards the mutating directory
// endpoints behind the admin realm role.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(RoleAdmin)
}
