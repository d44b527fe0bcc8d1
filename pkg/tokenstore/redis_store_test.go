package tokenstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxware/rxkit/pkg/tokenstore"
)

func setupRedisStore(t *testing.T) (*tokenstore.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return tokenstore.NewRedisStore(client, "test:token"), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		store, _ := setupRedisStore(t)

		require.NoError(t, store.Save(ctx, "tok-redis"))

		token, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-redis", token)
	})

	t.Run("missing key", func(t *testing.T) {
		store, _ := setupRedisStore(t)

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
	})

	t.Run("delete empties the slot", func(t *testing.T) {
		store, _ := setupRedisStore(t)

		require.NoError(t, store.Save(ctx, "tok"))
		require.NoError(t, store.Delete(ctx))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, tokenstore.ErrTokenNotFound)
	})

	t.Run("server down surfaces unavailable", func(t *testing.T) {
		store, mr := setupRedisStore(t)
		mr.Close()

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, tokenstore.ErrStoreUnavailable)
	})

	t.Run("from url", func(t *testing.T) {
		mr := miniredis.RunT(t)

		store, err := tokenstore.NewRedisStoreFromURL(ctx, "redis://"+mr.Addr(), "")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		require.NoError(t, store.Save(ctx, "tok"))
		assert.True(t, mr.Exists(tokenstore.DefaultRedisKey))
	})

	t.Run("from bad url", func(t *testing.T) {
		_, err := tokenstore.NewRedisStoreFromURL(ctx, "not-a-url", "")
		assert.ErrorIs(t, err, tokenstore.ErrStoreUnavailable)
	})
}
