package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hdmon/uaa/internal/application/appcore"
	"github.com/hdmon/uaa/internal/domain/errs"
	"github.com/hdmon/uaa/internal/domain/user"
)

// UpdateUserUseCase rewrites the identity fields of an existing record
// under the same uniqueness rules as creation, with the record itself
// excluded from conflicts.
type UpdateUserUseCase struct {
	userRepo Repository
	uniq     *UniquenessValidator
}

// NewUpdateUserUseCase creates a new UpdateUserUseCase.
func NewUpdateUserUseCase(userRepo Repository) *UpdateUserUseCase {
	return &UpdateUserUseCase{
		userRepo: userRepo,
		uniq:     NewUniquenessValidator(userRepo),
	}
}

// Execute loads the record by id, validates uniqueness of the candidate
// identity (email before login on this path), applies the changes and
// persists. An id that does not resolve is reported as not found; updates
// never create records.
func (uc *UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (Result, error) {
	if err := uc.validate(cmd); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	usr, err := uc.userRepo.FindByID(ctx, cmd.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, fmt.Errorf("failed to load user: %w", err)
	}

	login := strings.ToLower(cmd.Login)
	email := cmd.Email
	if email == "" {
		email = user.PlaceholderEmail(login)
	}

	if uniqErr := uc.uniq.ValidateForUpdate(ctx, cmd.ID, login, email); uniqErr != nil {
		return Result{}, uniqErr
	}

	if renameErr := usr.Rename(cmd.Login); renameErr != nil {
		return Result{}, fmt.Errorf("failed to apply login: %w", renameErr)
	}
	usr.ChangeEmail(cmd.Email)
	usr.ChangeMobile(cmd.Mobile)

	if saveErr := uc.userRepo.Save(ctx, usr); saveErr != nil {
		return Result{}, fmt.Errorf("failed to save user: %w", saveErr)
	}

	return Result{
		Result: appcore.Result[*user.User]{Value: usr},
	}, nil
}

func (uc *UpdateUserUseCase) validate(cmd UpdateUserCommand) error {
	if err := appcore.ValidatePositiveID("id", cmd.ID); err != nil {
		return err
	}
	if err := appcore.ValidateRequired("login", cmd.Login); err != nil {
		return err
	}
	if !user.ValidLogin(strings.ToLower(cmd.Login)) {
		return ErrInvalidLogin
	}
	if cmd.Email != "" {
		if err := appcore.ValidateEmail("email", cmd.Email); err != nil {
			return err
		}
	}
	return nil
}
