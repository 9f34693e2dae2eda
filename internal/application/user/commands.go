package user

// CreateUserCommand registers a new directory record. ID must be zero: the
// store allocates ids. An empty Email means "no real email on file" and is
// stored as the placeholder derived from the login.
type CreateUserCommand struct {
	ID     int64
	Login  string
	Email  string
	Mobile string
}

func (c CreateUserCommand) CommandName() string { return "CreateUser" }

// UpdateUserCommand rewrites the identity fields of an existing record.
// Uniqueness is re-checked with the record itself excluded from conflicts.
type UpdateUserCommand struct {
	ID     int64
	Login  string
	Email  string
	Mobile string
}

func (c UpdateUserCommand) CommandName() string { return "UpdateUser" }

// DeleteUserCommand removes a record by login. Deleting an absent login is
// not an error at this layer.
type DeleteUserCommand struct {
	Login string
}

func (c DeleteUserCommand) CommandName() string { return "DeleteUser" }
