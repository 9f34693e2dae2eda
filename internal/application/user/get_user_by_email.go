package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/hdmon/uaa/internal/application/appcore"
	"github.com/hdmon/uaa/internal/domain/errs"
	"github.com/hdmon/uaa/internal/domain/user"
)

// GetUserByEmailUseCase resolves a user by email.
type GetUserByEmailUseCase struct {
	userRepo QueryRepository
}

// NewGetUserByEmailUseCase creates a new GetUserByEmailUseCase.
func NewGetUserByEmailUseCase(userRepo QueryRepository) *GetUserByEmailUseCase {
	return &GetUserByEmailUseCase{userRepo: userRepo}
}

// Execute resolves the email case-insensitively. The placeholder is masked
// on the way out, same as every other alternate-key lookup.
func (uc *GetUserByEmailUseCase) Execute(ctx context.Context, query GetUserByEmailQuery) (Result, error) {
	if err := appcore.ValidateEmail("email", query.Email); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	usr, err := uc.userRepo.FindByEmail(ctx, query.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, fmt.Errorf("failed to find user by email: %w", err)
	}

	usr.MaskPlaceholderEmail()
	return Result{
		Result: appcore.Result[*user.User]{Value: usr},
	}, nil
}
