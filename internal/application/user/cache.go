package user

import "context"

// ExistenceCache is an advisory fast path for the public existence checks,
// which are hammered by registration and OTP flows. Only positive answers
// are cached: a miss always falls through to the store, so a freshly
// registered login or mobile is never reported as free for long, and never
// as taken when it is not.
type ExistenceCache interface {
	// LoginExists returns true when a positive answer is cached for login.
	LoginExists(ctx context.Context, login string) (bool, error)

	// MarkLoginExists records a positive answer for login.
	MarkLoginExists(ctx context.Context, login string) error

	// MobileOwner returns the cached result for mobile, or nil on a miss.
	MobileOwner(ctx context.Context, mobile string) (*MobileExistsResult, error)

	// MarkMobileExists records a positive answer for mobile.
	MarkMobileExists(ctx context.Context, mobile string, res MobileExistsResult) error
}

// CacheInvalidator drops cached existence answers for a removed user, so a
// deleted login or mobile stops being reported as taken before the TTL runs
// out.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, login, mobile string) error
}
