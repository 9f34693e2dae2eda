package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/hdmon/uaa/internal/application/appcore"
	"github.com/hdmon/uaa/internal/domain/errs"
	"github.com/hdmon/uaa/internal/domain/user"
)

// GetUserByLoginUseCase resolves a user by login.
type GetUserByLoginUseCase struct {
	userRepo QueryRepository
}

// NewGetUserByLoginUseCase creates a new GetUserByLoginUseCase.
func NewGetUserByLoginUseCase(userRepo QueryRepository) *GetUserByLoginUseCase {
	return &GetUserByLoginUseCase{userRepo: userRepo}
}

// Execute resolves the login case-insensitively and masks the placeholder
// email on the returned record.
func (uc *GetUserByLoginUseCase) Execute(ctx context.Context, query GetUserByLoginQuery) (Result, error) {
	if err := appcore.ValidateRequired("login", query.Login); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	usr, err := uc.userRepo.FindByLogin(ctx, query.Login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, fmt.Errorf("failed to find user by login: %w", err)
	}

	usr.MaskPlaceholderEmail()
	return Result{
		Result: appcore.Result[*user.User]{Value: usr},
	}, nil
}
