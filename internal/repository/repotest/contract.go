// Package repotest holds behaviour checks shared by every UserRepository implementation.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-api/internal/domain"
	"user-api/internal/repository"
)

// RunUserRepository exercises repo against the gateway contract. repo must be
// initialised and empty.
func RunUserRepository(t *testing.T, repo repository.UserRepository) {
	t.Helper()
	ctx := context.Background()
	phone := "010-1234-5678"

	var alice domain.User

	t.Run("SaveInserts", func(t *testing.T) {
		saved, err := repo.Save(ctx, domain.User{Name: "Alice", Email: "alice@x.com", Phone: &phone})
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())
		assert.True(t, saved.CreatedAt.Equal(saved.UpdatedAt))
		alice = saved
	})

	t.Run("ExistsByEmail", func(t *testing.T) {
		ok, err := repo.ExistsByEmail(ctx, "alice@x.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByEmail(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ExistsByID", func(t *testing.T) {
		ok, err := repo.ExistsByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByID(ctx, alice.ID+1000)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.Name, got.Name)
		assert.Equal(t, alice.Email, got.Email)
		require.NotNil(t, got.Phone)
		assert.Equal(t, phone, *got.Phone)
		assert.True(t, alice.CreatedAt.Equal(got.CreatedAt))

		_, err = repo.FindByID(ctx, alice.ID+1000)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("DuplicateEmailOnInsert", func(t *testing.T) {
		_, err := repo.Save(ctx, domain.User{Name: "Other", Email: "alice@x.com"})
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	var bob domain.User

	t.Run("FindAllInIDOrder", func(t *testing.T) {
		var err error
		bob, err = repo.Save(ctx, domain.User{Name: "Bob", Email: "bob@x.com"})
		require.NoError(t, err)
		assert.Nil(t, bob.Phone)

		users, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, alice.ID, users[0].ID)
		assert.Equal(t, bob.ID, users[1].ID)
	})

	t.Run("SaveUpdates", func(t *testing.T) {
		changed := alice
		changed.Name = "Alicia"
		changed.Email = "alicia@x.com"
		changed.Phone = nil

		saved, err := repo.Save(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, saved.ID)
		assert.Equal(t, "Alicia", saved.Name)
		assert.Equal(t, "alicia@x.com", saved.Email)
		assert.Nil(t, saved.Phone)
		assert.True(t, alice.CreatedAt.Equal(saved.CreatedAt))
		assert.True(t, saved.UpdatedAt.After(alice.UpdatedAt))
		alice = saved
	})

	t.Run("DuplicateEmailOnUpdate", func(t *testing.T) {
		changed := bob
		changed.Email = alice.Email
		_, err := repo.Save(ctx, changed)
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		_, err := repo.Save(ctx, domain.User{ID: bob.ID + 1000, Name: "Ghost", Email: "ghost@x.com"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, bob.ID))
		assert.ErrorIs(t, repo.DeleteByID(ctx, bob.ID), repository.ErrNotFound)

		ok, err := repo.ExistsByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
