package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hdmon/uaa/internal/application/appcore"
	userapp "github.com/hdmon/uaa/internal/application/user"
	"github.com/hdmon/uaa/internal/domain/errs"
)

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error represents an error in the API response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON sends a successful JSON response.
func RespondJSON(c echo.Context, code int, data any) error {
	return c.JSON(code, Response{
		Success: true,
		Data:    data,
	})
}

// RespondOK sends a 200 OK response with data.
func RespondOK(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data.
func RespondCreated(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusCreated, data)
}

// RespondNoContent sends a 204 No Content response.
func RespondNoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// RespondError sends an error JSON response based on the error type.
func RespondError(c echo.Context, err error) error {
	statusCode, apiError := mapError(err)
	return c.JSON(statusCode, Response{
		Success: false,
		Error:   apiError,
	})
}

// RespondErrorWithCode sends an error JSON response with a specific HTTP status code.
func RespondErrorWithCode(c echo.Context, code int, errorCode, message string) error {
	return c.JSON(code, Response{
		Success: false,
		Error: &Error{
			Code:    errorCode,
			Message: message,
		},
	})
}

// mapError maps application and domain errors to HTTP status codes and API errors.
func mapError(err error) (int, *Error) {
	var validationErr *appcore.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, &Error{
			Code:    "INVALID_INPUT",
			Message: validationErr.Error(),
		}
	}

	switch {
	case errors.Is(err, userapp.ErrLoginAlreadyUsed):
		return http.StatusConflict, &Error{
			Code:    "LOGIN_ALREADY_USED",
			Message: "Login name already used",
		}

	case errors.Is(err, userapp.ErrEmailAlreadyUsed):
		return http.StatusConflict, &Error{
			Code:    "EMAIL_ALREADY_USED",
			Message: "Email is already in use",
		}

	case errors.Is(err, userapp.ErrUserNotFound):
		return http.StatusNotFound, &Error{
			Code:    "USER_NOT_FOUND",
			Message: "User could not be found",
		}

	case errors.Is(err, userapp.ErrInvalidLogin):
		return http.StatusBadRequest, &Error{
			Code:    "INVALID_LOGIN",
			Message: "Login contains invalid characters",
		}

	case errors.Is(err, userapp.ErrIDAlreadyAssigned):
		return http.StatusBadRequest, &Error{
			Code:    "ID_ALREADY_ASSIGNED",
			Message: "A new user cannot already have an ID",
		}

	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, &Error{
			Code:    "NOT_FOUND",
			Message: "The requested resource was not found",
		}

	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, &Error{
			Code:    "ALREADY_EXISTS",
			Message: "The resource already exists",
		}

	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest, &Error{
			Code:    "INVALID_INPUT",
			Message: "Invalid input data",
		}

	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, &Error{
			Code:    "UNAUTHORIZED",
			Message: "Authentication required",
		}

	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, &Error{
			Code:    "FORBIDDEN",
			Message: "Access denied",
		}

	default:
		return http.StatusInternalServerError, &Error{
			Code:    "INTERNAL_ERROR",
			Message: "An internal error occurred",
		}
	}
}
