// Package errs defines domain-level sentinel errors shared across layers.
package errs

import "errors"

var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a uniqueness constraint is violated
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input data is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when access is not authorized
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when an action is forbidden
	ErrForbidden = errors.New("forbidden")
)
