package user

import (
	"context"
)

// Service is a facade over the individual use cases. Handlers depend on
// narrow consumer-side interfaces; this type satisfies all of them.
type Service struct {
	createUser        *CreateUserUseCase
	updateUser        *UpdateUserUseCase
	deleteUser        *DeleteUserUseCase
	getUserByLogin    *GetUserByLoginUseCase
	getUserByEmail    *GetUserByEmailUseCase
	getUserByMobile   *GetUserByMobileUseCase
	getUserByID       *GetUserByIDUseCase
	checkLoginExists  *CheckLoginExistsUseCase
	checkMobileExists *CheckMobileExistsUseCase
	listUsers         *ListUsersUseCase
}

// ServiceDeps lists the use cases the facade delegates to.
type ServiceDeps struct {
	CreateUser        *CreateUserUseCase
	UpdateUser        *UpdateUserUseCase
	DeleteUser        *DeleteUserUseCase
	GetUserByLogin    *GetUserByLoginUseCase
	GetUserByEmail    *GetUserByEmailUseCase
	GetUserByMobile   *GetUserByMobileUseCase
	GetUserByID       *GetUserByIDUseCase
	CheckLoginExists  *CheckLoginExistsUseCase
	CheckMobileExists *CheckMobileExistsUseCase
	ListUsers         *ListUsersUseCase
}

// NewService creates a Service from its use cases.
func NewService(deps ServiceDeps) *Service {
	return &Service{
		createUser:        deps.CreateUser,
		updateUser:        deps.UpdateUser,
		deleteUser:        deps.DeleteUser,
		getUserByLogin:    deps.GetUserByLogin,
		getUserByEmail:    deps.GetUserByEmail,
		getUserByMobile:   deps.GetUserByMobile,
		getUserByID:       deps.GetUserByID,
		checkLoginExists:  deps.CheckLoginExists,
		checkMobileExists: deps.CheckMobileExists,
		listUsers:         deps.ListUsers,
	}
}

// CreateUser registers a new user.
func (s *Service) CreateUser(ctx context.Context, cmd CreateUserCommand) (Result, error) {
	return s.createUser.Execute(ctx, cmd)
}

// UpdateUser rewrites an existing user's identity fields.
func (s *Service) UpdateUser(ctx context.Context, cmd UpdateUserCommand) (Result, error) {
	return s.updateUser.Execute(ctx, cmd)
}

// DeleteUser removes a user by login.
func (s *Service) DeleteUser(ctx context.Context, cmd DeleteUserCommand) error {
	return s.deleteUser.Execute(ctx, cmd)
}

// GetUserByLogin resolves a user by login.
func (s *Service) GetUserByLogin(ctx context.Context, query GetUserByLoginQuery) (Result, error) {
	return s.getUserByLogin.Execute(ctx, query)
}

// GetUserByEmail resolves a user by email.
func (s *Service) GetUserByEmail(ctx context.Context, query GetUserByEmailQuery) (Result, error) {
	return s.getUserByEmail.Execute(ctx, query)
}

// GetUserByMobile resolves a user by mobile number.
func (s *Service) GetUserByMobile(ctx context.Context, query GetUserByMobileQuery) (Result, error) {
	return s.getUserByMobile.Execute(ctx, query)
}

// GetUserByID resolves a user by numeric id.
func (s *Service) GetUserByID(ctx context.Context, query GetUserByIDQuery) (Result, error) {
	return s.getUserByID.Execute(ctx, query)
}

// CheckLoginExists reports whether a login is taken.
func (s *Service) CheckLoginExists(ctx context.Context, query CheckLoginExistsQuery) (bool, error) {
	return s.checkLoginExists.Execute(ctx, query)
}

// CheckMobileExists reports whether a mobile number is taken.
func (s *Service) CheckMobileExists(ctx context.Context, query CheckMobileExistsQuery) (MobileExistsResult, error) {
	return s.checkMobileExists.Execute(ctx, query)
}

// ListUsers lists users with pagination.
func (s *Service) ListUsers(ctx context.Context, query ListUsersQuery) (UsersListResult, error) {
	return s.listUsers.Execute(ctx, query)
}
