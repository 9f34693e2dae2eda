package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hdmon/uaa/internal/application/appcore"
	"github.com/hdmon/uaa/internal/domain/errs"
)

// DeleteUserUseCase removes a user by login. Deletion is idempotent:
// deleting a login that is already gone succeeds without an error.
type DeleteUserUseCase struct {
	userRepo Repository
	cache    CacheInvalidator
	logger   *slog.Logger
}

// NewDeleteUserUseCase creates a new DeleteUserUseCase.
// The cache invalidator is optional.
func NewDeleteUserUseCase(userRepo Repository, cache CacheInvalidator, logger *slog.Logger) *DeleteUserUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteUserUseCase{userRepo: userRepo, cache: cache, logger: logger}
}

// Execute deletes the user identified by cmd.Login, if one exists.
func (uc *DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	if err := appcore.ValidateRequired("login", cmd.Login); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	login := strings.ToLower(cmd.Login)

	usr, err := uc.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	// The record may vanish between the find and the delete; a missing
	// target on either path is still a successful delete.
	if err := uc.userRepo.DeleteByLogin(ctx, login); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if uc.cache != nil {
		if invErr := uc.cache.Invalidate(ctx, login, usr.Mobile()); invErr != nil {
			uc.logger.WarnContext(ctx, "existence cache invalidation failed",
				slog.String("login", login),
				slog.String("error", invErr.Error()),
			)
		}
	}

	uc.logger.InfoContext(ctx, "user deleted",
		slog.Int64("user_id", usr.ID()),
		slog.String("login", login),
	)
	return nil
}
