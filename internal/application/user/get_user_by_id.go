package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/hdmon/uaa/internal/application/appcore"
	"github.com/hdmon/uaa/internal/domain/errs"
	"github.com/hdmon/uaa/internal/domain/user"
)

// GetUserByIDUseCase resolves a user by numeric id.
type GetUserByIDUseCase struct {
	userRepo QueryRepository
}

// NewGetUserByIDUseCase creates a new GetUserByIDUseCase.
func NewGetUserByIDUseCase(userRepo QueryRepository) *GetUserByIDUseCase {
	return &GetUserByIDUseCase{userRepo: userRepo}
}

// Execute rejects non-positive ids before touching the store, then resolves
// and masks the placeholder email on the returned record.
func (uc *GetUserByIDUseCase) Execute(ctx context.Context, query GetUserByIDQuery) (Result, error) {
	if err := appcore.ValidatePositiveID("id", query.ID); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	usr, err := uc.userRepo.FindByID(ctx, query.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, fmt.Errorf("failed to find user by id: %w", err)
	}

	usr.MaskPlaceholderEmail()
	return Result{
		Result: appcore.Result[*user.User]{Value: usr},
	}, nil
}
