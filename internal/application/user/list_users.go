package user

import (
	"context"
	"fmt"

	"github.com/hdmon/uaa/internal/application/appcore"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListUsersUseCase returns a paginated page of the directory, masked the
// same way single lookups are.
type ListUsersUseCase struct {
	userRepo QueryRepository
}

// NewListUsersUseCase creates a new ListUsersUseCase.
func NewListUsersUseCase(userRepo QueryRepository) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo}
}

// Execute lists users ordered by id. Limit is clamped to a sane maximum.
func (uc *ListUsersUseCase) Execute(ctx context.Context, query ListUsersQuery) (UsersListResult, error) {
	if err := uc.validate(query); err != nil {
		return UsersListResult{}, fmt.Errorf("validation failed: %w", err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	total, err := uc.userRepo.Count(ctx)
	if err != nil {
		return UsersListResult{}, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := uc.userRepo.List(ctx, query.Offset, limit)
	if err != nil {
		return UsersListResult{}, fmt.Errorf("failed to list users: %w", err)
	}

	for _, usr := range users {
		usr.MaskPlaceholderEmail()
	}

	return UsersListResult{
		Users:      users,
		TotalCount: total,
		Offset:     query.Offset,
		Limit:      limit,
	}, nil
}

func (uc *ListUsersUseCase) validate(query ListUsersQuery) error {
	if err := appcore.ValidateNonNegative("offset", query.Offset); err != nil {
		return err
	}
	return appcore.ValidateNonNegative("limit", query.Limit)
}
