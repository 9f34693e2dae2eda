// Package httphandler contains the HTTP handlers for the directory API.
package httphandler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	userapp "github.com/hdmon/uaa/internal/application/user"
	"github.com/hdmon/uaa/internal/domain/user"
	"github.com/hdmon/uaa/internal/infrastructure/httpserver"
)

// CreateUserRequest represents the request to register a new user.
type CreateUserRequest struct {
	ID     int64  `json:"id,omitempty"`
	Login  string `json:"login"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// UpdateUserRequest represents the request to rewrite a user's identity fields.
type UpdateUserRequest struct {
	ID     int64  `json:"id"`
	Login  string `json:"login"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// UserResponse represents a user in API responses. Email is the externally
// visible value: empty when only the placeholder is on file.
type UserResponse struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Activated bool   `json:"activated"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UsersListResponse represents a paginated user listing.
type UsersListResponse struct {
	Users      []UserResponse `json:"users"`
	TotalCount int            `json:"total_count"`
	Offset     int            `json:"offset"`
	Limit      int            `json:"limit"`
}

// UserService defines the interface for administrative user operations.
// Declared on the consumer side per project guidelines.
type UserService interface {
	// CreateUser registers a new user.
	CreateUser(ctx context.Context, cmd userapp.CreateUserCommand) (userapp.Result, error)

	// UpdateUser rewrites an existing user's identity fields.
	UpdateUser(ctx context.Context, cmd userapp.UpdateUserCommand) (userapp.Result, error)

	// DeleteUser removes a user by login.
	DeleteUser(ctx context.Context, cmd userapp.DeleteUserCommand) error

	// GetUserByLogin resolves a user by login.
	GetUserByLogin(ctx context.Context, query userapp.GetUserByLoginQuery) (userapp.Result, error)

	// ListUsers lists users with pagination.
	ListUsers(ctx context.Context, query userapp.ListUsersQuery) (userapp.UsersListResult, error)
}

// UserHandler handles the administrative user management endpoints.
type UserHandler struct {
	userService UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers user management routes with the router.
// All of them require the admin realm role.
func (h *UserHandler) RegisterRoutes(r *httpserver.Router) {
	r.Admin().POST("/users", h.Create)
	r.Admin().PUT("/users", h.Update)
	r.Admin().GET("/users", h.List)
	r.Admin().GET("/users/:login", h.GetByLogin)
	r.Admin().DELETE("/users/:login", h.Delete)
}

// Create handles POST /api/v1/users.
// Registers a new user; the store assigns the id.
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
	}

	cmd := userapp.CreateUserCommand{
		ID:     req.ID,
		Login:  req.Login,
		Email:  req.Email,
		Mobile: req.Mobile,
	}

	result, err := h.userService.CreateUser(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondCreated(c, ToUserResponse(result.Value))
}

// Update handles PUT /api/v1/users.
// Rewrites the identity fields of the user addressed by the id in the body.
func (h *UserHandler) Update(c echo.Context) error {
	var req UpdateUserRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
	}

	cmd := userapp.UpdateUserCommand{
		ID:     req.ID,
		Login:  req.Login,
		Email:  req.Email,
		Mobile: req.Mobile,
	}

	result, err := h.userService.UpdateUser(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, ToUserResponse(result.Value))
}

// GetByLogin handles GET /api/v1/users/:login.
// Unlike the public directory lookups, a miss here is a 404.
func (h *UserHandler) GetByLogin(c echo.Context) error {
	query := userapp.GetUserByLoginQuery{
		Login: c.Param("login"),
	}

	result, err := h.userService.GetUserByLogin(c.Request().Context(), query)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, ToUserResponse(result.Value))
}

// List handles GET /api/v1/users with offset/limit pagination.
func (h *UserHandler) List(c echo.Context) error {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "offset must be an integer")
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return httpserver.RespondErrorWithCode(
			c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer")
	}

	query := userapp.ListUsersQuery{
		Offset: offset,
		Limit:  limit,
	}

	result, listErr := h.userService.ListUsers(c.Request().Context(), query)
	if listErr != nil {
		return httpserver.RespondError(c, listErr)
	}

	users := make([]UserResponse, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, ToUserResponse(u))
	}

	return httpserver.RespondOK(c, UsersListResponse{
		Users:      users,
		TotalCount: result.TotalCount,
		Offset:     result.Offset,
		Limit:      result.Limit,
	})
}

// Delete handles DELETE /api/v1/users/:login.
// Deleting an absent login still answers 204.
func (h *UserHandler) Delete(c echo.Context) error {
	cmd := userapp.DeleteUserCommand{
		Login: c.Param("login"),
	}

	if err := h.userService.DeleteUser(c.Request().Context(), cmd); err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondNoContent(c)
}

// queryInt reads an optional integer query parameter.
func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// ToUserResponse converts a domain User to UserResponse.
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID(),
		Login:     u.Login(),
		Email:     u.RealEmail(),
		Mobile:    u.Mobile(),
		Activated: u.Activated(),
		CreatedAt: u.CreatedAt().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt().Format(time.RFC3339),
	}
}
