// Package storetest holds the behaviour every store.KV implementation must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/store"
)

// RunKVContract exercises kv against the store.KV contract.
func RunKVContract(t *testing.T, kv store.KV) {
	ctx := context.Background()

	t.Run("Get missing", func(t *testing.T) {
		_, err := kv.Get(ctx, "contract:missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "contract:a", `[{"id":"x"}]`))

		got, err := kv.Get(ctx, "contract:a")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"x"}]`, got)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "contract:b", "first"))
		require.NoError(t, kv.Set(ctx, "contract:b", "second"))

		got, err := kv.Get(ctx, "contract:b")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("Keys are independent", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "contract:c1", "one"))
		require.NoError(t, kv.Set(ctx, "contract:c2", "two"))

		got, err := kv.Get(ctx, "contract:c1")
		require.NoError(t, err)
		assert.Equal(t, "one", got)
	})

	t.Run("Stores unparsable values verbatim", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "contract:broken", "["))

		got, err := kv.Get(ctx, "contract:broken")
		require.NoError(t, err)
		assert.Equal(t, "[", got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "contract:d", "gone soon"))
		require.NoError(t, kv.Delete(ctx, "contract:d"))

		_, err := kv.Get(ctx, "contract:d")
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.NoError(t, kv.Delete(ctx, "contract:never-set"), "deleting a missing key is not an error")
	})
}
