package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/hdmon/uaa/internal/infrastructure/httpserver"
	"github.com/hdmon/uaa/internal/middleware"
)

func TestDefaultRouterConfig(t *testing.T) {
	config := httpserver.DefaultRouterConfig()

	assert.NotNil(t, config.Logger)
	assert.Equal(t, "/api/v1", config.APIPrefix)
}

func TestRouter_PublicGroup(t *testing.T) {
	e := echo.New()
	router := httpserver.NewRouter(e, httpserver.DefaultRouterConfig())

	router.Public().GET("/directory/by-login/:login", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Param("login"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/directory/by-login/jdoe", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jdoe", rec.Body.String())
}

func TestRouter_AuthGroupRequiresToken(t *testing.T) {
	e := echo.New()

	config := httpserver.DefaultRouterConfig()
	config.AuthMiddleware = middleware.Auth(middleware.AuthConfig{
		TokenValidator: &staticTokenValidator{
			claims: &middleware.TokenClaims{Subject: "subject-1", Roles: []string{"user"}},
		},
	})

	router := httpserver.NewRouter(e, config)
	router.Auth().GET("/account", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer token")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminGroupRequiresRole(t *testing.T) {
	e := echo.New()

	validator := &staticTokenValidator{
		claims: &middleware.TokenClaims{Subject: "subject-1", Roles: []string{"user"}},
	}

	config := httpserver.DefaultRouterConfig()
	config.AuthMiddleware = middleware.Auth(middleware.AuthConfig{TokenValidator: validator})

	router := httpserver.NewRouter(e, config)
	router.Admin().POST("/users", func(c echo.Context) error {
		return c.String(http.StatusCreated, "created")
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer token")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, send().Code)

	validator.claims = &middleware.TokenClaims{
		Subject: "subject-1",
		Roles:   []string{middleware.RoleAdmin},
	}
	assert.Equal(t, http.StatusCreated, send().Code)
}

func TestRouter_AdminGroupFailsClosedWithoutAuthMiddleware(t *testing.T) {
	e := echo.New()
	router := httpserver.NewRouter(e, httpserver.DefaultRouterConfig())

	router.Auth().GET("/account", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	router.Admin().POST("/users", func(c echo.Context) error {
		return c.String(http.StatusCreated, "created")
	})

	// Authenticated routes fall back to public access.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Admin routes still require the admin role, which no request can
	// carry without a token validator.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	e := echo.New()
	router := httpserver.NewRouter(e, httpserver.DefaultRouterConfig())
	router.RegisterMetricsEndpoint()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_HealthEndpoints(t *testing.T) {
	e := echo.New()
	router := httpserver.NewRouter(e, httpserver.DefaultRouterConfig())
	router.RegisterHealthEndpointsWithChecker(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}
