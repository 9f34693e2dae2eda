package user

import "regexp"

// loginPattern accepts alphanumerics plus the limited punctuation allowed
// in logins. Path segments matching it are treated as login-shaped keys.
var loginPattern = regexp.MustCompile(`^[_.@A-Za-z0-9-]+$`)

// ValidLogin reports whether s is a syntactically valid login.
func ValidLogin(s string) bool {
	return loginPattern.MatchString(s)
}
