package user

import (
	"github.com/hdmon/uaa/internal/application/appcore"
	"github.com/hdmon/uaa/internal/domain/user"
)

// Result is the outcome of an operation on a single user.
type Result struct {
	appcore.Result[*user.User]
}

// UsersListResult is the outcome of a paginated listing.
type UsersListResult struct {
	Users      []*user.User
	TotalCount int
	Offset     int
	Limit      int
}

// MobileExistsResult is the structured answer for mobile existence checks.
// Mobile deliberately carries more detail than the plain boolean login
// check: OTP and registration flows need to know who holds the number and
// whether that account already completed activation.
type MobileExistsResult struct {
	Exists    bool   `json:"exists"`
	UserID    int64  `json:"user_id,omitempty"`
	Login     string `json:"login,omitempty"`
	Activated bool   `json:"activated,omitempty"`
}
