package user

// placeholderSuffix is appended to the login to form the synthetic email
// stored for accounts registered without a real one (mobile-first signup).
// The value is derived from the login alone, never stored independently.
const placeholderSuffix = ".no-email@hdmon.com"

// PlaceholderEmail derives the synthetic email for a login. Distinct logins
// always yield distinct placeholders, so the storage-level email uniqueness
// constraint never collides between two placeholder-carrying accounts.
func PlaceholderEmail(login string) string {
	return login + placeholderSuffix
}

// HasPlaceholderEmail reports whether the stored email is the placeholder
// for this user's own login. A placeholder borrowed from a different login
// counts as a real (and conflicting) email.
func (u *User) HasPlaceholderEmail() bool {
	return u.email == PlaceholderEmail(u.login)
}

// RealEmail returns the externally visible email: empty when the stored
// value is the placeholder for this user's login, unchanged otherwise.
func (u *User) RealEmail() string {
	if u.HasPlaceholderEmail() {
		return ""
	}
	return u.email
}

// MaskPlaceholderEmail replaces a placeholder email with the empty string
// on this in-memory copy. Lookup paths call it before a record leaves the
// service; the stored document keeps the placeholder.
func (u *User) MaskPlaceholderEmail() {
	if u.HasPlaceholderEmail() {
		u.email = ""
	}
}
