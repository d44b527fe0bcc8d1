package tokenstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxware/rxkit/pkg/tokenstore"
)

func TestFileStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "creds", "token")
		store := tokenstore.NewFileStore(path)

		require.NoError(t, store.Save(ctx, "tok-file"))

		token, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-file", token)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		store := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "nope"))
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
	})

	t.Run("owner only permissions", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "token")
		store := tokenstore.NewFileStore(path)
		require.NoError(t, store.Save(ctx, "secret"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("save overwrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "token")
		store := tokenstore.NewFileStore(path)
		require.NoError(t, store.Save(ctx, "one"))
		require.NoError(t, store.Save(ctx, "two"))

		token, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "two", token)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "token")
		store := tokenstore.NewFileStore(path)
		require.NoError(t, store.Save(ctx, "tok"))
		require.NoError(t, store.Delete(ctx))
		require.NoError(t, store.Delete(ctx))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
	})

	t.Run("whitespace only file counts as empty", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("\n  \n"), 0o600))

		store := tokenstore.NewFileStore(path)
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
	})
}
