package repository

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/memstore"
)

func seeded(t *testing.T) (*Repository, *memstore.Store) {
	t.Helper()
	kv := memstore.New()
	repo := New(kv)
	require.NoError(t, repo.SaveAll(context.Background(), model.NewCollection(
		model.NewTodo("a0", "foo", true),
		model.NewTodo("a1", "bar", false),
		model.NewTodo("a2", "baz", true),
	)))
	return repo, kv
}

func TestSaveAll_OverwritesPreviousList(t *testing.T) {
	ctx := context.Background()
	repo, _ := seeded(t)

	require.NoError(t, repo.SaveAll(ctx, model.NewCollection(
		model.NewTodo("b0", "foo", true),
		model.NewTodo("b1", "bar", false),
	)))

	c := repo.GetAll(ctx)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"b0", "b1"}, c.IDs())
}

func TestGetAll_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := seeded(t)

	c := repo.GetAll(ctx)

	require.Equal(t, 3, c.Len())
	want := []model.Todo{
		{ID: "a0", Title: "foo", Completed: true},
		{ID: "a1", Title: "bar", Completed: false},
		{ID: "a2", Title: "baz", Completed: true},
	}
	for i, todo := range c.ToArray() {
		assert.Equal(t, want[i], *todo)
	}
}

func TestGetAll_NothingStored(t *testing.T) {
	ctx := context.Background()
	repo, kv := seeded(t)
	kv.Clear()

	assert.Equal(t, 0, repo.GetAll(ctx).Len())
}

func TestGetAll_BrokenJSON(t *testing.T) {
	ctx := context.Background()
	repo, kv := seeded(t)
	require.NoError(t, kv.Set(ctx, DefaultKey, "["))

	assert.Equal(t, 0, repo.GetAll(ctx).Len())
}

func TestGetAll_WrongShape(t *testing.T) {
	ctx := context.Background()
	tests := map[string]string{
		"object":        `{"id":"a","title":"x"}`,
		"missing id":    `[{"title":"x","completed":false}]`,
		"empty id":      `[{"id":"","title":"x"}]`,
		"numeric title": `[{"id":"a","title":3}]`,
		"string flag":   `[{"id":"a","title":"x","completed":"yes"}]`,
		"null":          `null`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			kv := memstore.New()
			require.NoError(t, kv.Set(ctx, DefaultKey, raw))
			assert.Equal(t, 0, New(kv).GetAll(ctx).Len())
		})
	}
}

func TestGetAll_MissingCompletedDefaultsFalse(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	require.NoError(t, kv.Set(ctx, DefaultKey, `[{"id":"a","title":"x"}]`))

	c := New(kv).GetAll(ctx)
	require.Equal(t, 1, c.Len())
	assert.False(t, c.ToArray()[0].Completed)
}

func TestGetAll_DropsRepeatedIDs(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	require.NoError(t, kv.Set(ctx, DefaultKey, `[{"id":"a","title":"one"},{"id":"a","title":"two"}]`))

	c := New(kv).GetAll(ctx)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "one", c.ToArray()[0].Title)
}

type failingKV struct{ store.KV }

func (failingKV) Get(context.Context, string) (string, error) { return "", errors.New("disk on fire") }
func (failingKV) Set(context.Context, string, string) error  { return errors.New("disk on fire") }

func TestRepository_StoreFailures(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	repo := New(failingKV{}, WithLogger(logging.FromConfig(&buf, "warn", "logfmt")))

	assert.Equal(t, 0, repo.GetAll(ctx).Len())
	assert.Contains(t, buf.String(), "disk on fire")

	err := repo.SaveAll(ctx, model.NewCollection(model.NewTodo("a", "x", false)))
	assert.ErrorContains(t, err, "save todos")
}

func TestWithKey(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	repo := New(kv, WithKey("other"))
	require.NoError(t, repo.SaveAll(ctx, model.NewCollection(model.NewTodo("a", "x", false))))

	_, err := kv.Get(ctx, DefaultKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 1, New(kv, WithKey("other")).GetAll(ctx).Len())
	assert.Equal(t, "other", repo.Key())
}
