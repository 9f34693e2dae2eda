package user

// GetUserByLoginQuery resolves a user by login (case-insensitive).
type GetUserByLoginQuery struct {
	Login string
}

func (q GetUserByLoginQuery) QueryName() string { return "GetUserByLogin" }

// GetUserByEmailQuery resolves a user by email (case-insensitive).
type GetUserByEmailQuery struct {
	Email string
}

func (q GetUserByEmailQuery) QueryName() string { return "GetUserByEmail" }

// GetUserByMobileQuery resolves a user by exact mobile number.
type GetUserByMobileQuery struct {
	Mobile string
}

func (q GetUserByMobileQuery) QueryName() string { return "GetUserByMobile" }

// GetUserByIDQuery resolves a user by positive numeric id.
type GetUserByIDQuery struct {
	ID int64
}

func (q GetUserByIDQuery) QueryName() string { return "GetUserByID" }

// CheckLoginExistsQuery asks whether a login is taken.
type CheckLoginExistsQuery struct {
	Login string
}

func (q CheckLoginExistsQuery) QueryName() string { return "CheckLoginExists" }

// CheckMobileExistsQuery asks whether a mobile number is taken, with enough
// detail for registration/OTP flows to decide the next step.
type CheckMobileExistsQuery struct {
	Mobile string
}

func (q CheckMobileExistsQuery) QueryName() string { return "CheckMobileExists" }

// ListUsersQuery lists users with pagination.
type ListUsersQuery struct {
	Offset int
	Limit  int
}

func (q ListUsersQuery) QueryName() string { return "ListUsers" }
