// Package storagetest holds the behaviour every storage.KV must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/storage"
)

// RunKV exercises kv through the KV contract. newKV must return an empty store.
func RunKV(t *testing.T, newKV func(t *testing.T) storage.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		kv := newKV(t)
		_, ok, err := kv.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set get overwrite", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Set(ctx, "theme", "dark"))
		require.NoError(t, kv.Set(ctx, "theme", "light"))

		v, ok, err := kv.Get(ctx, "theme")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "light", v)
	})

	t.Run("empty value is present", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Set(ctx, "blank", ""))
		_, ok, err := kv.Get(ctx, "blank")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delete and keys", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Set(ctx, "b", "2"))
		require.NoError(t, kv.Set(ctx, "a", "1"))
		require.NoError(t, kv.Delete(ctx, "b"))
		require.NoError(t, kv.Delete(ctx, "never-set"))

		keys, err := kv.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, keys)
	})

	t.Run("clear", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Set(ctx, "a", "1"))
		require.NoError(t, kv.Set(ctx, "b", "2"))
		require.NoError(t, kv.Clear(ctx))

		keys, err := kv.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}
