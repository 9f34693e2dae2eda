package user

import "errors"

var (
	// ErrLoginAlreadyUsed is returned when another record already holds the candidate login
	ErrLoginAlreadyUsed = errors.New("login already in use")

	// ErrEmailAlreadyUsed is returned when another record already holds the candidate email
	ErrEmailAlreadyUsed = errors.New("email already in use")

	// ErrUserNotFound is returned when no record resolves for the given key
	ErrUserNotFound = errors.New("user not found")

	// ErrIDAlreadyAssigned is returned when a create request carries a pre-existing id
	ErrIDAlreadyAssigned = errors.New("a new user cannot already have an id")

	// ErrInvalidLogin is returned when the candidate login does not match the login pattern
	ErrInvalidLogin = errors.New("invalid login format")
)
