package user

import (
	"context"

	"github.com/hdmon/uaa/internal/domain/user"
)

// CommandRepository defines the write side of user persistence.
// Interfaces are declared on the consumer side (application layer).
type CommandRepository interface {
	// Save persists a user. A record without an id receives a freshly
	// allocated positive id from the store.
	Save(ctx context.Context, u *user.User) error

	// DeleteByLogin removes the record with the given normalized login.
	// Returns errs.ErrNotFound when no such record exists.
	DeleteByLogin(ctx context.Context, login string) error
}

// QueryRepository defines the read side of user persistence. Each lookup
// returns errs.ErrNotFound for absence, which is a normal outcome distinct
// from an operational store error.
type QueryRepository interface {
	// FindByID finds a user by numeric id
	FindByID(ctx context.Context, id int64) (*user.User, error)

	// FindByLogin finds a user by login, case-insensitively
	FindByLogin(ctx context.Context, login string) (*user.User, error)

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(ctx context.Context, email string) (*user.User, error)

	// FindByMobile finds a user by exact mobile number. Duplicates are not
	// prevented at the data-model level; the first match wins.
	FindByMobile(ctx context.Context, mobile string) (*user.User, error)

	// List returns users with pagination
	List(ctx context.Context, offset, limit int) ([]*user.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int, error)
}

// Repository combines the command and query interfaces for use cases that
// need both.
type Repository interface {
	CommandRepository
	QueryRepository
}
