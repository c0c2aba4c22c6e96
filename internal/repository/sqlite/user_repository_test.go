package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"user-api/internal/repository/repotest"
)

func TestUserRepository(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	// Init must be idempotent across restarts.
	require.NoError(t, repo.Init(context.Background()))

	repotest.RunUserRepository(t, repo)
}
