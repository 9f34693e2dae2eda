package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hdmon/uaa/internal/domain/errs"
)

// UniquenessValidator decides whether a candidate identity collides with a
// stored record. It is a pure decision over the query repository: no writes,
// and a store-level "not found" is the success path.
//
// The pre-checks here are a fast path for friendly error reporting, not the
// final guarantee: two concurrent creates can both pass before either
// writes. The store's unique indexes are the backstop, and a duplicate-key
// error surfaced at write time is treated as the same conflict outcome.
type UniquenessValidator struct {
	repo QueryRepository
}

// NewUniquenessValidator creates a new UniquenessValidator.
func NewUniquenessValidator(repo QueryRepository) *UniquenessValidator {
	return &UniquenessValidator{repo: repo}
}

// ValidateForCreate checks a brand-new identity. The login is checked
// before the email, so when both collide the login conflict is reported.
func (v *UniquenessValidator) ValidateForCreate(ctx context.Context, login, email string) error {
	if err := v.loginTaken(ctx, login, 0); err != nil {
		return err
	}
	return v.emailTaken(ctx, email, 0)
}

// ValidateForUpdate checks an identity being rewritten onto the record with
// the given id. A match against that same record is a self-conflict and is
// excluded. The email is checked before the login, the reverse of the
// create path; both orders are kept as distinct per-operation policies.
func (v *UniquenessValidator) ValidateForUpdate(ctx context.Context, id int64, login, email string) error {
	if err := v.emailTaken(ctx, email, id); err != nil {
		return err
	}
	return v.loginTaken(ctx, login, id)
}

func (v *UniquenessValidator) loginTaken(ctx context.Context, login string, selfID int64) error {
	existing, err := v.repo.FindByLogin(ctx, strings.ToLower(login))
	switch {
	case err == nil:
		if existing.ID() != selfID {
			return ErrLoginAlreadyUsed
		}
		return nil
	case errors.Is(err, errs.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("login uniqueness check: %w", err)
	}
}

func (v *UniquenessValidator) emailTaken(ctx context.Context, email string, selfID int64) error {
	existing, err := v.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID() != selfID {
			return ErrEmailAlreadyUsed
		}
		return nil
	case errors.Is(err, errs.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("email uniqueness check: %w", err)
	}
}
