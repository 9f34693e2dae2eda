package user

import (
	"context"

	"github.com/hdmon/uaa/internal/domain/user"
)

// ActivationSender dispatches the account-activation message for a freshly
// created user. Create is "persist, then best-effort notify": a send
// failure is reported but never rolls back the already-persisted record.
type ActivationSender interface {
	SendActivation(ctx context.Context, u *user.User) error
}
