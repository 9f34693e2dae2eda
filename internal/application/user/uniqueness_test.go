package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hdmon/uaa/internal/application/user"
)

func TestUniquenessValidator_ValidateForCreate_BothFree(t *testing.T) {
	repo := newMockUserRepository()
	v := user.NewUniquenessValidator(repo)

	if err := v.ValidateForCreate(context.Background(), "jdoe", "jdoe@example.com"); err != nil {
		t.Errorf("expected no conflict on empty store, got: %v", err)
	}
}

func TestUniquenessValidator_ValidateForUpdate_SelfMatchExcluded(t *testing.T) {
	repo := newMockUserRepository()
	existing := mustSeed(t, repo, "jdoe", "jdoe@example.com", "")
	v := user.NewUniquenessValidator(repo)

	if err := v.ValidateForUpdate(context.Background(), existing.ID(), "jdoe", "jdoe@example.com"); err != nil {
		t.Errorf("expected the record's own identity to pass, got: %v", err)
	}
}

func TestUniquenessValidator_StoreErrorPropagates(t *testing.T) {
	repo := newMockUserRepository()
	repo.findError = errors.New("database error")
	v := user.NewUniquenessValidator(repo)

	err := v.ValidateForCreate(context.Background(), "jdoe", "jdoe@example.com")
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if errors.Is(err, user.ErrLoginAlreadyUsed) || errors.Is(err, user.ErrEmailAlreadyUsed) {
		t.Error("a store failure must not be reported as a conflict")
	}
}
