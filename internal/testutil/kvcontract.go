package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/todo/internal/domain"
)

// RunKVContract exercises the get/set/remove behavior every substrate must share.
// newStore must return an empty store.
func RunKVContract(t *testing.T, newStore func(t *testing.T) domain.KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		kv := newStore(t)
		v, found, err := kv.Get(ctx, "@TodoApp:tasks")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "@TodoApp:tasks", `[{"id":"1"}]`))

		v, found, err := kv.Get(ctx, "@TodoApp:tasks")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"1"}]`, v)
	})

	t.Run("set replaces value", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "k", "first"))
		require.NoError(t, kv.Set(ctx, "k", "second"))

		v, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "second", v)
	})

	t.Run("empty value is found", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "k", ""))

		v, found, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, v)
	})

	t.Run("keys are independent", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "a", "1"))
		require.NoError(t, kv.Set(ctx, "b", "2"))
		require.NoError(t, kv.Remove(ctx, "a"))

		_, found, err := kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, found)

		v, found, err := kv.Get(ctx, "b")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "2", v)
	})

	t.Run("remove absent key", func(t *testing.T) {
		kv := newStore(t)
		assert.NoError(t, kv.Remove(ctx, "missing"))
	})

	t.Run("unicode value", func(t *testing.T) {
		kv := newStore(t)
		value := `[{"title":"牛乳を買う • ☕"}]`
		require.NoError(t, kv.Set(ctx, "k", value))

		v, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, value, v)
	})
}
