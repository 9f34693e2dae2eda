package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hdmon/uaa/internal/application/appcore"
	"github.com/hdmon/uaa/internal/domain/user"
)

// CreateUserUseCase handles registration of a new directory record.
type CreateUserUseCase struct {
	userRepo Repository
	uniq     *UniquenessValidator
	notifier ActivationSender
	logger   *slog.Logger
}

// NewCreateUserUseCase creates a new CreateUserUseCase.
func NewCreateUserUseCase(
	userRepo Repository,
	notifier ActivationSender,
	logger *slog.Logger,
) *CreateUserUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateUserUseCase{
		userRepo: userRepo,
		uniq:     NewUniquenessValidator(userRepo),
		notifier: notifier,
		logger:   logger,
	}
}

// Execute validates the candidate, enforces uniqueness (login before email
// on this path), persists, and then dispatches the activation notification.
// Persist and notify are not atomic: a failed send leaves the user in place,
// pending activation.
func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (Result, error) {
	if err := uc.validate(cmd); err != nil {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	login := strings.ToLower(cmd.Login)
	email := cmd.Email
	if email == "" {
		email = user.PlaceholderEmail(login)
	}

	if err := uc.uniq.ValidateForCreate(ctx, login, email); err != nil {
		return Result{}, err
	}

	usr, err := user.NewUser(cmd.Login, cmd.Email, cmd.Mobile)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create user: %w", err)
	}

	if saveErr := uc.userRepo.Save(ctx, usr); saveErr != nil {
		return Result{}, fmt.Errorf("failed to save user: %w", saveErr)
	}

	if uc.notifier != nil {
		if notifyErr := uc.notifier.SendActivation(ctx, usr); notifyErr != nil {
			uc.logger.ErrorContext(ctx, "activation notification failed",
				slog.String("login", usr.Login()),
				slog.Int64("user_id", usr.ID()),
				slog.String("error", notifyErr.Error()),
			)
		}
	}

	return Result{
		Result: appcore.Result[*user.User]{Value: usr},
	}, nil
}

func (uc *CreateUserUseCase) validate(cmd CreateUserCommand) error {
	if cmd.ID != 0 {
		return ErrIDAlreadyAssigned
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
