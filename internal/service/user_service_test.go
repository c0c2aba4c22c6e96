package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-api/internal/domain"
	"user-api/internal/dto"
	"user-api/internal/repository"
	"user-api/internal/repository/sqlite"
)

func newSQLiteService(t *testing.T) (UserService, repository.UserRepository) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return NewUserService(repo), repo
}

func strPtr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	resp, err := svc.CreateUser(ctx, dto.UserCreateRequest{Name: "Alice", Email: "alice@x.com", Phone: strPtr("010-1234-5678")})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "alice@x.com", resp.Email)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, "010-1234-5678", *resp.Phone)
	assert.NotEmpty(t, resp.CreatedAt)

	got, err := svc.GetUserByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, repo := newSQLiteService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.UserCreateRequest{Name: "Alice", Email: "alice@x.com"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, dto.UserCreateRequest{Name: "Alicia", Email: "alice@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc, _ := newSQLiteService(t)

	_, err := svc.GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetAllUsers(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	empty, err := svc.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := svc.CreateUser(ctx, dto.UserCreateRequest{Name: "User", Email: email})
		require.NoError(t, err)
	}

	all, err := svc.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a@x.com", all[0].Email)
	assert.Equal(t, "c@x.com", all[2].Email)
}

func TestUpdateUser(t *testing.T) {
	svc, repo := newSQLiteService(t)
	ctx := context.Background()

	alice, err := svc.CreateUser(ctx, dto.UserCreateRequest{Name: "Alice", Email: "alice@x.com", Phone: strPtr("010-1234-5678")})
	require.NoError(t, err)
	bob, err := svc.CreateUser(ctx, dto.UserCreateRequest{Name: "Bob", Email: "bob@x.com"})
	require.NoError(t, err)

	before, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)

	t.Run("same email does not conflict", func(t *testing.T) {
		resp, err := svc.UpdateUser(ctx, alice.ID, dto.UserCreateRequest{Name: "Alicia", Email: "alice@x.com"})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, resp.ID)
		assert.Equal(t, "Alicia", resp.Name)
		assert.Nil(t, resp.Phone)
		assert.Equal(t, alice.CreatedAt, resp.CreatedAt)

		after, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("email of another user conflicts", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, alice.ID, dto.UserCreateRequest{Name: "Alice", Email: bob.Email})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("fresh email", func(t *testing.T) {
		resp, err := svc.UpdateUser(ctx, bob.ID, dto.UserCreateRequest{Name: "Robert", Email: "robert@x.com"})
		require.NoError(t, err)
		assert.Equal(t, "robert@x.com", resp.Email)

		taken, err := repo.ExistsByEmail(ctx, "bob@x.com")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, 999, dto.UserCreateRequest{Name: "Ghost", Email: "ghost@x.com"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDeleteUserTwice(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	resp, err := svc.CreateUser(ctx, dto.UserCreateRequest{Name: "Alice", Email: "alice@x.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, resp.ID))
	assert.ErrorIs(t, svc.DeleteUser(ctx, resp.ID), ErrUserNotFound)

	_, err = svc.GetUserByID(ctx, resp.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// racingRepository reports every email as free but rejects the write, the way
// the store behaves when a concurrent create wins the race.
type racingRepository struct {
	repository.UserRepository
	saveErr error
	findErr error
}

func (r *racingRepository) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }

func (r *racingRepository) ExistsByID(context.Context, int64) (bool, error) { return true, nil }

func (r *racingRepository) FindByID(_ context.Context, id int64) (domain.User, error) {
	if r.findErr != nil {
		return domain.User{}, r.findErr
	}
	return domain.User{ID: id, Name: "Alice", Email: "alice@x.com"}, nil
}

func (r *racingRepository) Save(context.Context, domain.User) (domain.User, error) {
	return domain.User{}, r.saveErr
}

func (r *racingRepository) DeleteByID(context.Context, int64) error { return repository.ErrNotFound }

func TestConstraintViolationIsDuplicateEmail(t *testing.T) {
	svc := NewUserService(&racingRepository{saveErr: repository.ErrDuplicateEmail})
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.UserCreateRequest{Name: "Alice", Email: "alice@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.UpdateUser(ctx, 1, dto.UserCreateRequest{Name: "Alice", Email: "other@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestConcurrentDeleteIsNotFound(t *testing.T) {
	svc := NewUserService(&racingRepository{})
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 1), ErrUserNotFound)
}

func TestStoreFailurePropagates(t *testing.T) {
	boom := errors.New("disk I/O error")
	svc := NewUserService(&racingRepository{saveErr: boom, findErr: boom})
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.UserCreateRequest{Name: "Alice", Email: "alice@x.com"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.GetUserByID(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
