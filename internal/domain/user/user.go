package user

import (
	"strings"
	"time"

	"github.com/hdmon/uaa/internal/domain/errs"
)

// User is a directory record addressable by several alternate keys:
// login, email, mobile number and the numeric id assigned by the store.
type User struct {
	id        int64 // assigned by the store on first save, immutable afterwards
	login     string
	email     string
	mobile    string
	activated bool
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates an unsaved user. The login is normalized to lower case.
// An empty email means "no real email on file" and is replaced with the
// placeholder derived from the login, so the storage-level uniqueness
// constraint on email still holds for mobile-only registrations.
func NewUser(login, email, mobile string) (*User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return nil, errs.ErrInvalidInput
	}
	if !ValidLogin(login) {
		return nil, errs.ErrInvalidInput
	}

	if email == "" {
		email = PlaceholderEmail(login)
	}

	now := time.Now()
	return &User{
		login:     login,
		email:     email,
		mobile:    mobile,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a user from storage.
func Reconstruct(
	id int64,
	login, email, mobile string,
	activated bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:        id,
		login:     login,
		email:     email,
		mobile:    mobile,
		activated: activated,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the numeric id, or 0 for a record not yet persisted.
func (u *User) ID() int64 {
	return u.id
}

// Login returns the normalized (lower-case) login.
func (u *User) Login() string {
	return u.login
}

// Email returns the stored email, placeholder included.
// Use RealEmail for the externally visible value.
func (u *User) Email() string {
	return u.email
}

// Mobile returns the mobile number, empty if none.
func (u *User) Mobile() string {
	return u.mobile
}

// Activated reports whether the account passed the activation flow.
func (u *User) Activated() bool {
	return u.activated
}

// CreatedAt returns creation time.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns the time of the last modification.
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// AssignID sets the store-allocated id. It may be called once, with a
// positive id, on a record that does not have one yet.
func (u *User) AssignID(id int64) error {
	if u.id != 0 || id <= 0 {
		return errs.ErrInvalidInput
	}
	u.id = id
	return nil
}

// Rename changes the login. When the current email is the placeholder for
// the old login it is re-derived, since the placeholder is a computed value
// and must always track the login it embeds.
func (u *User) Rename(login string) error {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || !ValidLogin(login) {
		return errs.ErrInvalidInput
	}
	if u.email == PlaceholderEmail(u.login) {
		u.email = PlaceholderEmail(login)
	}
	u.login = login
	u.updatedAt = time.Now()
	return nil
}

// ChangeEmail sets a new email. An empty value reverts to the placeholder.
func (u *User) ChangeEmail(email string) {
	if email == "" {
		email = PlaceholderEmail(u.login)
	}
	u.email = email
	u.updatedAt = time.Now()
}

// ChangeMobile sets a new mobile number. Empty clears it.
func (u *User) ChangeMobile(mobile string) {
	u.mobile = mobile
	u.updatedAt = time.Now()
}

// SetActivated flips the activation flag. The transition itself is driven
// by the activation flow outside this service.
func (u *User) SetActivated(activated bool) {
	u.activated = activated
	u.updatedAt = time.Now()
}
