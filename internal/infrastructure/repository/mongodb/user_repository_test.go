package mongodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdmon/uaa/internal/domain/errs"
	userdomain "github.com/hdmon/uaa/internal/domain/user"
	infra "github.com/hdmon/uaa/internal/infrastructure/mongodb"
	"github.com/hdmon/uaa/internal/infrastructure/repository/mongodb"
	"github.com/hdmon/uaa/tests/testutil"
)

func setupUserRepository(t *testing.T) *mongodb.MongoUserRepository {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.SetupSharedTestMongoDB(t)
	ctx := context.Background()
	require.NoError(t, infra.CreateAllIndexes(ctx, db))

	sequence := mongodb.NewSequenceAllocator(db.Collection(infra.CollectionCounters))
	return mongodb.NewMongoUserRepository(db.Collection(infra.CollectionUsers), sequence)
}

func TestMongoUserRepository_SaveAssignsSequentialIDs(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)
	ctx := context.Background()

	first, err := userdomain.NewUser("alice", "alice@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := userdomain.NewUser("bob", "bob@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	assert.Positive(t, first.ID())
	assert.Equal(t, first.ID()+1, second.ID())
}

func TestMongoUserRepository_FindByLogin_CaseInsensitive(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)
	ctx := context.Background()

	usr, err := userdomain.NewUser("JDoe", "jdoe@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, usr))

	found, err := repo.FindByLogin(ctx, "jDOE")
	require.NoError(t, err)
	assert.Equal(t, usr.ID(), found.ID())
	assert.Equal(t, "jdoe", found.Login())
}

func TestMongoUserRepository_FindByEmail_CaseInsensitive(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)
	ctx := context.Background()

	usr, err := userdomain.NewUser("jdoe", "JDoe@Example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, usr))

	found, err := repo.FindByEmail(ctx, "jdoe@example.COM")
	require.NoError(t, err)
	assert.Equal(t, usr.ID(), found.ID())
	// Stored casing is preserved, only matching ignores case.
	assert.Equal(t, "JDoe@Example.com", found.Email())
}

func TestMongoUserRepository_FindByMobile_LowestIDWins(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)
	ctx := context.Background()

	first, err := userdomain.NewUser("first", "first@example.com", "+84905555555")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := userdomain.NewUser("second", "second@example.com", "+84905555555")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	found, err := repo.FindByMobile(ctx, "+84905555555")
	require.NoError(t, err)
	assert.Equal(t, first.ID(), found.ID())
}

func TestMongoUserRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)

	_, err := repo.FindByID(context.Background(), 424242)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMongoUserRepository_InsertDuplicateLogin(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)
	ctx := context.Background()

	usr, err := userdomain.NewUser("jdoe", "jdoe@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, usr))

	dup, err := userdomain.NewUser("jdoe", "other@example.com", "")
	require.NoError(t, err)
	// The unique index is the backstop for the racy pre-check path.
	assert.ErrorIs(t, repo.Save(ctx, dup), errs.ErrAlreadyExists)
}

func TestMongoUserRepository_UpdateExisting(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)
	ctx := context.Background()

	usr, err := userdomain.NewUser("jdoe", "jdoe@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, usr))

	usr.ChangeMobile("+84901234567")
	require.NoError(t, repo.Save(ctx, usr))

	found, err := repo.FindByID(ctx, usr.ID())
	require.NoError(t, err)
	assert.Equal(t, "+84901234567", found.Mobile())
}

func TestMongoUserRepository_DeleteByLogin(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)
	ctx := context.Background()

	usr, err := userdomain.NewUser("jdoe", "jdoe@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, usr))

	require.NoError(t, repo.DeleteByLogin(ctx, "jdoe"))

	_, err = repo.FindByLogin(ctx, "jdoe")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteByLogin(ctx, "jdoe"), errs.ErrNotFound)
}

func TestMongoUserRepository_ListAndCount(t *testing.T) {
	t.Parallel()
	repo := setupUserRepository(t)
	ctx := context.Background()

	for _, login := range []string{"alice", "bob", "carol"} {
		usr, err := userdomain.NewUser(login, login+"@example.com", "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, usr))
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	users, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Pages are ordered by ascending id.
	assert.Equal(t, "bob", users[0].Login())
	assert.Equal(t, "carol", users[1].Login())
}
