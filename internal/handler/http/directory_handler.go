package httphandler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	userapp "github.com/hdmon/uaa/internal/application/user"
	"github.com/hdmon/uaa/internal/infrastructure/httpserver"
)

// DirectoryService defines the interface for public directory lookups.
type DirectoryService interface {
	// GetUserByLogin resolves a user by login.
	GetUserByLogin(ctx context.Context, query userapp.GetUserByLoginQuery) (userapp.Result, error)

	// GetUserByEmail resolves a user by email.
	GetUserByEmail(ctx context.Context, query userapp.GetUserByEmailQuery) (userapp.Result, error)

	// GetUserByMobile resolves a user by mobile number.
	GetUserByMobile(ctx context.Context, query userapp.GetUserByMobileQuery) (userapp.Result, error)

	// GetUserByID resolves a user by numeric id.
	GetUserByID(ctx context.Context, query userapp.GetUserByIDQuery) (userapp.Result, error)

	// CheckLoginExists reports whether a login is taken.
	CheckLoginExists(ctx context.Context, query userapp.CheckLoginExistsQuery) (bool, error)

	// CheckMobileExists reports whether a mobile number is taken.
	CheckMobileExists(ctx context.Context, query userapp.CheckMobileExistsQuery) (userapp.MobileExistsResult, error)
}

// DirectoryHandler handles the public directory lookup endpoints used by
// sibling services during registration and OTP flows.
type DirectoryHandler struct {
	directory DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directory DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
	}
}

// RegisterRoutes registers directory routes with the router.
func (h *DirectoryHandler) RegisterRoutes(r *httpserver.Router) {
	r.Public().GET("/directory/by-login/:login", h.GetByLogin)
	r.Public().GET("/directory/by-email", h.GetByEmail)
	r.Public().GET("/directory/by-mobile/:mobile", h.GetByMobile)
	r.Public().GET("/directory/by-id/:id", h.GetByID)
	r.Public().GET("/directory/exists/login/:login", h.LoginExists)
	r.Public().GET("/directory/exists/mobile/:mobile", h.MobileExists)
}

// GetByLogin handles GET /api/v1/directory/by-login/:login.
func (h *DirectoryHandler) GetByLogin(c echo.Context) error {
	query := userapp.GetUserByLoginQuery{
		Login: c.Param("login"),
	}

	result, err := h.directory.GetUserByLogin(c.Request().Context(), query)
	return respondLookup(c, result, err)
}

// GetByEmail handles GET /api/v1/directory/by-email?email=...
// The address goes in a query parameter so it never needs path escaping.
func (h *DirectoryHandler) GetByEmail(c echo.Context) error {
	query := userapp.GetUserByEmailQuery{
		Email: c.QueryParam("email"),
	}

	result, err := h.directory.GetUserByEmail(c.Request().Context(), query)
	return respondLookup(c, result, err)
}

// GetByMobile handles GET /api/v1/directory/by-mobile/:mobile.
func (h *DirectoryHandler) GetByMobile(c echo.Context) error {
	query := userapp.GetUserByMobileQuery{
		Mobile: c.Param("mobile"),
	}

	result, err := h.directory.GetUserByMobile(c.Request().Context(), query)
	return respondLookup(c, result, err)
}

// GetByID handles GET /api/v1/directory/by-id/:id.
func (h *DirectoryHandler) GetByID(c echo.Context) error {
	id, parseErr := parseIDParam(c)
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_USER_ID", "user id must be a positive integer")
	}

	query := userapp.GetUserByIDQuery{ID: id}

	result, err := h.directory.GetUserByID(c.Request().Context(), query)
	return respondLookup(c, result, err)
}

// LoginExists handles GET /api/v1/directory/exists/login/:login.
// Answers a bare boolean.
func (h *DirectoryHandler) LoginExists(c echo.Context) error {
	query := userapp.CheckLoginExistsQuery{
		Login: c.Param("login"),
	}

	exists, err := h.directory.CheckLoginExists(c.Request().Context(), query)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, map[string]bool{"exists": exists})
}

// MobileExists handles GET /api/v1/directory/exists/mobile/:mobile.
// Answers the structured result registration/OTP flows need.
func (h *DirectoryHandler) MobileExists(c echo.Context) error {
	query := userapp.CheckMobileExistsQuery{
		Mobile: c.Param("mobile"),
	}

	result, err := h.directory.CheckMobileExists(c.Request().Context(), query)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, result)
}

// respondLookup renders a directory lookup outcome. A miss is a successful
// answer with no data: callers probe these endpoints with keys that usually
// do not exist yet, so a 404 would only mean noise in their error handling.
func respondLookup(c echo.Context, result userapp.Result, err error) error {
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			return httpserver.RespondOK(c, nil)
		}
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, ToUserResponse(result.Value))
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
