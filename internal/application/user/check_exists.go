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

// CheckLoginExistsUseCase answers whether a login is taken. The answer is
// a plain boolean; it is true only when the resolved record carries a real
// positive id, so a half-written row with an unset id does not count.
type CheckLoginExistsUseCase struct {
	userRepo QueryRepository
	cache    ExistenceCache
	logger   *slog.Logger
}

// NewCheckLoginExistsUseCase creates a new CheckLoginExistsUseCase.
// The cache is optional; nil disables the fast path.
func NewCheckLoginExistsUseCase(
	userRepo QueryRepository,
	cache ExistenceCache,
	logger *slog.Logger,
) *CheckLoginExistsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckLoginExistsUseCase{userRepo: userRepo, cache: cache, logger: logger}
}

// Execute checks the cache for a positive answer, then falls back to the
// store. Cache failures degrade to a store lookup, never to an error.
func (uc *CheckLoginExistsUseCase) Execute(ctx context.Context, query CheckLoginExistsQuery) (bool, error) {
	if err := appcore.ValidateRequired("login", query.Login); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	login := strings.ToLower(query.Login)

	if uc.cache != nil {
		hit, cacheErr := uc.cache.LoginExists(ctx, login)
		if cacheErr != nil {
			uc.logger.WarnContext(ctx, "existence cache lookup failed",
				slog.String("login", login),
				slog.String("error", cacheErr.Error()),
			)
		} else if hit {
			return true, nil
		}
	}

	usr, err := uc.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check login existence: %w", err)
	}

	exists := usr.ID() > 0
	if exists && uc.cache != nil {
		if markErr := uc.cache.MarkLoginExists(ctx, login); markErr != nil {
			uc.logger.WarnContext(ctx, "existence cache update failed",
				slog.String("login", login),
				slog.String("error", markErr.Error()),
			)
		}
	}
	return exists, nil
}

// CheckMobileExistsUseCase answers whether a mobile number is taken with a
// structured payload rather than a boolean: registration and OTP flows need
// the owning login and its activation state to pick the next step.
type CheckMobileExistsUseCase struct {
	userRepo QueryRepository
	cache    ExistenceCache
	logger   *slog.Logger
}

// NewCheckMobileExistsUseCase creates a new CheckMobileExistsUseCase.
// The cache is optional; nil disables the fast path.
func NewCheckMobileExistsUseCase(
	userRepo QueryRepository,
	cache ExistenceCache,
	logger *slog.Logger,
) *CheckMobileExistsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckMobileExistsUseCase{userRepo: userRepo, cache: cache, logger: logger}
}

// Execute resolves the mobile number (first match on duplicates) and
// reports the owner's id, login and activation flag when one exists.
func (uc *CheckMobileExistsUseCase) Execute(
	ctx context.Context,
	query CheckMobileExistsQuery,
) (MobileExistsResult, error) {
	if err := appcore.ValidateRequired("mobile", query.Mobile); err != nil {
		return MobileExistsResult{}, fmt.Errorf("validation failed: %w", err)
	}

	if uc.cache != nil {
		cached, cacheErr := uc.cache.MobileOwner(ctx, query.Mobile)
		if cacheErr != nil {
			uc.logger.WarnContext(ctx, "existence cache lookup failed",
				slog.String("mobile", query.Mobile),
				slog.String("error", cacheErr.Error()),
			)
		} else if cached != nil {
			return *cached, nil
		}
	}

	usr, err := uc.userRepo.FindByMobile(ctx, query.Mobile)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return MobileExistsResult{Exists: false}, nil
		}
		return MobileExistsResult{}, fmt.Errorf("failed to check mobile existence: %w", err)
	}

	res := MobileExistsResult{
		Exists:    true,
		UserID:    usr.ID(),
		Login:     usr.Login(),
		Activated: usr.Activated(),
	}
	if uc.cache != nil {
		if markErr := uc.cache.MarkMobileExists(ctx, query.Mobile, res); markErr != nil {
			uc.logger.WarnContext(ctx, "existence cache update failed",
				slog.String("mobile", query.Mobile),
				slog.String("error", markErr.Error()),
			)
		}
	}
	return res, nil
}
