package user_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hdmon/uaa/internal/application/user"
	"github.com/hdmon/uaa/internal/domain/errs"
	domainuser "github.com/hdmon/uaa/internal/domain/user"
)

// mockUserRepository is an in-memory repository for testing. Lookups by
// login and email are case-insensitive, matching the store contract.
type mockUserRepository struct {
	usersByID map[int64]*domainuser.User
	nextID    int64

	saveCalls int
	findCalls int

	saveError   error
	findError   error
	deleteError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByID: make(map[int64]*domainuser.User),
		nextID:    1,
	}
}

func (m *mockUserRepository) FindByID(_ context.Context, id int64) (*domainuser.User, error) {
	m.findCalls++
	if m.findError != nil {
		return nil, m.findError
	}
	if usr, ok := m.usersByID[id]; ok {
		return usr, nil
	}
	return nil, errs.ErrNotFound
}

func (m *mockUserRepository) FindByLogin(_ context.Context, login string) (*domainuser.User, error) {
	m.findCalls++
	if m.findError != nil {
		return nil, m.findError
	}
	for _, usr := range m.usersByID {
		if usr.Login() == strings.ToLower(login) {
			return usr, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*domainuser.User, error) {
	m.findCalls++
	if m.findError != nil {
		return nil, m.findError
	}
	for _, usr := range m.usersByID {
		if strings.EqualFold(usr.Email(), email) {
			return usr, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockUserRepository) FindByMobile(_ context.Context, mobile string) (*domainuser.User, error) {
	m.findCalls++
	if m.findError != nil {
		return nil, m.findError
	}
	var found *domainuser.User
	for _, usr := range m.usersByID {
		if usr.Mobile() != mobile {
			continue
		}
		if found == nil || usr.ID() < found.ID() {
			found = usr
		}
	}
	if found != nil {
		return found, nil
	}
	return nil, errs.ErrNotFound
}

func (m *mockUserRepository) Save(_ context.Context, usr *domainuser.User) error {
	m.saveCalls++
	if m.saveError != nil {
		return m.saveError
	}
	if usr.ID() == 0 {
		if err := usr.AssignID(m.nextID); err != nil {
			return err
		}
		m.nextID++
	}
	m.usersByID[usr.ID()] = usr
	return nil
}

func (m *mockUserRepository) DeleteByLogin(_ context.Context, login string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	for id, usr := range m.usersByID {
		if usr.Login() == strings.ToLower(login) {
			delete(m.usersByID, id)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (m *mockUserRepository) List(_ context.Context, offset, limit int) ([]*domainuser.User, error) {
	all := make([]*domainuser.User, 0, len(m.usersByID))
	for id := int64(1); id < m.nextID; id++ {
		if usr, ok := m.usersByID[id]; ok {
			all = append(all, usr)
		}
	}
	if offset >= len(all) {
		return []*domainuser.User{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (m *mockUserRepository) Count(_ context.Context) (int, error) {
	return len(m.usersByID), nil
}

// mustSeed stores an already-identified user directly, bypassing the use cases.
func mustSeed(t *testing.T, repo *mockUserRepository, login, email, mobile string) *domainuser.User {
	t.Helper()
	usr, err := domainuser.NewUser(login, email, mobile)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := repo.Save(context.Background(), usr); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	return usr
}

// mockActivationSender records activation dispatches.
type mockActivationSender struct {
	sent      []string
	sendError error
}

func (m *mockActivationSender) SendActivation(_ context.Context, u *domainuser.User) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.sent = append(m.sent, u.Login())
	return nil
}

func TestCreateUserUseCase_Execute_Success(t *testing.T) {
	repo := newMockUserRepository()
	sender := &mockActivationSender{}
	useCase := user.NewCreateUserUseCase(repo, sender, nil)
	cmd := user.CreateUserCommand{
		Login:  "JDoe",
		Email:  "jdoe@example.com",
		Mobile: "+84901234567",
	}

	result, err := useCase.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	usr := result.Value
	if usr == nil {
		t.Fatal("expected user to be created")
	}
	if usr.ID() <= 0 {
		t.Errorf("expected a positive assigned id, got %d", usr.ID())
	}
	if usr.Login() != "jdoe" {
		t.Errorf("expected normalized login jdoe, got %s", usr.Login())
	}
	if usr.Email() != "jdoe@example.com" {
		t.Errorf("expected email jdoe@example.com, got %s", usr.Email())
	}
	if len(sender.sent) != 1 || sender.sent[0] != "jdoe" {
		t.Errorf("expected one activation dispatch for jdoe, got %v", sender.sent)
	}
}

func TestCreateUserUseCase_Execute_EmptyEmailGetsPlaceholder(t *testing.T) {
	repo := newMockUserRepository()
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)
	cmd := user.CreateUserCommand{Login: "mobileonly", Mobile: "+84900000001"}

	result, err := useCase.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := domainuser.PlaceholderEmail("mobileonly")
	if result.Value.Email() != want {
		t.Errorf("expected placeholder %s, got %s", want, result.Value.Email())
	}
}

func TestCreateUserUseCase_Execute_LoginConflict(t *testing.T) {
	repo := newMockUserRepository()
	mustSeed(t, repo, "jdoe", "jdoe@example.com", "")
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)

	savesBefore := repo.saveCalls
	cmd := user.CreateUserCommand{Login: "jdoe", Email: "other@example.com"}

	_, err := useCase.Execute(context.Background(), cmd)
	if !errors.Is(err, user.ErrLoginAlreadyUsed) {
		t.Fatalf("expected ErrLoginAlreadyUsed, got: %v", err)
	}
	if repo.saveCalls != savesBefore {
		t.Error("conflicting create must not write to the store")
	}
}

func TestCreateUserUseCase_Execute_LoginConflictCaseInsensitive(t *testing.T) {
	repo := newMockUserRepository()
	mustSeed(t, repo, "admin", "admin@example.com", "")
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)
	cmd := user.CreateUserCommand{Login: "Admin", Email: "other@example.com"}

	_, err := useCase.Execute(context.Background(), cmd)
	if !errors.Is(err, user.ErrLoginAlreadyUsed) {
		t.Errorf("expected ErrLoginAlreadyUsed for a case variant, got: %v", err)
	}
}

func TestCreateUserUseCase_Execute_EmailConflict(t *testing.T) {
	repo := newMockUserRepository()
	mustSeed(t, repo, "jdoe", "jdoe@example.com", "")
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)
	cmd := user.CreateUserCommand{Login: "other", Email: "jdoe@example.com"}

	_, err := useCase.Execute(context.Background(), cmd)
	if !errors.Is(err, user.ErrEmailAlreadyUsed) {
		t.Errorf("expected ErrEmailAlreadyUsed, got: %v", err)
	}
}

func TestCreateUserUseCase_Execute_BothConflict_LoginReported(t *testing.T) {
	// When both keys collide on create, the login conflict wins: login is
	// checked first on this path.
	repo := newMockUserRepository()
	mustSeed(t, repo, "jdoe", "jdoe@example.com", "")
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)
	cmd := user.CreateUserCommand{Login: "jdoe", Email: "jdoe@example.com"}

	_, err := useCase.Execute(context.Background(), cmd)
	if !errors.Is(err, user.ErrLoginAlreadyUsed) {
		t.Errorf("expected ErrLoginAlreadyUsed, got: %v", err)
	}
}

func TestCreateUserUseCase_Execute_PlaceholderCollidesWithLiteralEmail(t *testing.T) {
	// Another user stored the literal string "bob.no-email@hdmon.com" as a
	// real email. A mobile-only registration of login "bob" derives the same
	// placeholder and must be rejected as an email conflict.
	repo := newMockUserRepository()
	mustSeed(t, repo, "squatter", domainuser.PlaceholderEmail("bob"), "")
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)
	cmd := user.CreateUserCommand{Login: "bob", Mobile: "+84900000002"}

	_, err := useCase.Execute(context.Background(), cmd)
	if !errors.Is(err, user.ErrEmailAlreadyUsed) {
		t.Errorf("expected ErrEmailAlreadyUsed, got: %v", err)
	}
}

func TestCreateUserUseCase_Validate_PreassignedID(t *testing.T) {
	repo := newMockUserRepository()
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)
	cmd := user.CreateUserCommand{ID: 42, Login: "jdoe", Email: "jdoe@example.com"}

	_, err := useCase.Execute(context.Background(), cmd)
	if !errors.Is(err, user.ErrIDAlreadyAssigned) {
		t.Fatalf("expected ErrIDAlreadyAssigned, got: %v", err)
	}
	if repo.findCalls != 0 {
		t.Error("validation failure must not reach the store")
	}
}

func TestCreateUserUseCase_Validate_InvalidLogin(t *testing.T) {
	repo := newMockUserRepository()
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)
	cmd := user.CreateUserCommand{Login: "no spaces allowed"}

	_, err := useCase.Execute(context.Background(), cmd)
	if !errors.Is(err, user.ErrInvalidLogin) {
		t.Errorf("expected ErrInvalidLogin, got: %v", err)
	}
}

func TestCreateUserUseCase_Execute_NotifyFailureDoesNotFailCreate(t *testing.T) {
	repo := newMockUserRepository()
	sender := &mockActivationSender{sendError: errors.New("smtp relay down")}
	useCase := user.NewCreateUserUseCase(repo, sender, nil)
	cmd := user.CreateUserCommand{Login: "jdoe", Email: "jdoe@example.com"}

	result, err := useCase.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("expected no error when only notification fails, got: %v", err)
	}
	if result.Value == nil || result.Value.ID() <= 0 {
		t.Error("expected the user to be persisted despite the failed notification")
	}
}

func TestCreateUserUseCase_Execute_SaveError(t *testing.T) {
	repo := newMockUserRepository()
	repo.saveError = errors.New("database error")
	useCase := user.NewCreateUserUseCase(repo, &mockActivationSender{}, nil)
	cmd := user.CreateUserCommand{Login: "jdoe", Email: "jdoe@example.com"}

	_, err := useCase.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected error from save operation")
	}
}
