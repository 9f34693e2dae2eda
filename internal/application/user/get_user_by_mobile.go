package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/hdmon/uaa/internal/application/appcore"
	"github.com/hdmon/uaa/internal/domain/errs"
	"github.com/hdmon/uaa/internal/domain/user"
)

// GetUserByMobileUseCase resolves a user by mobile number.
type GetUserByMobileUseCase struct {
	userRepo QueryRepository
}

// NewGetUserByMobileUseCase creates a new GetUserByMobileUseCase.
func NewGetUserByMobileUseCase(userRepo QueryRepository) *GetUserByMobileUseCase {
	return &GetUserByMobileUseCase{userRepo: userRepo}
}

// Execute resolves an exact mobile match. The store may hold duplicate
// mobiles; the first match is returned. The placeholder email is masked on
// the returned record.
func (uc *GetUserByMobileUseCase) Execute(ctx context.Context, query GetUserByMobileQuery) (Result, error) {
	if err := appcore.ValidateRequired("mobile", query.Mobile); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	usr, err := uc.userRepo.FindByMobile(ctx, query.Mobile)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, fmt.Errorf("failed to find user by mobile: %w", err)
	}

	usr.MaskPlaceholderEmail()
	return Result{
		Result: appcore.Result[*user.User]{Value: usr},
	}, nil
}
