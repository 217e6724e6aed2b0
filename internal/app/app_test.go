package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/repository"
	"github.com/idilsaglam/tada/internal/store/memstore"
)

type recordingView struct {
	ToggleQueue
	controls []Controls
	lists    [][]string
}

func (v *recordingView) RefreshControls(c Controls) { v.controls = append(v.controls, c) }

func (v *recordingView) RefreshList(display *model.Collection, _ model.Filter) {
	v.lists = append(v.lists, display.IDs())
}

func (v *recordingView) reset() {
	v.controls = nil
	v.lists = nil
}

type fixture struct {
	app  *App
	view *recordingView
	repo *repository.Repository
	kv   *memstore.Store
}

func newFixture(t *testing.T, seed ...*model.Todo) *fixture {
	t.Helper()
	ctx := context.Background()
	kv := memstore.New()
	repo := repository.New(kv)
	if len(seed) > 0 {
		require.NoError(t, repo.SaveAll(ctx, model.NewCollection(seed...)))
	}
	n := 0
	factory := model.NewFactory(model.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}))
	view := &recordingView{}
	return &fixture{
		app:  New(ctx, repo, view, WithFactory(factory)),
		view: view,
		repo: repo,
		kv:   kv,
	}
}

// reload reads back what was persisted.
func (f *fixture) reload() *model.Collection {
	return f.repo.GetAll(context.Background())
}

func mixed() []*model.Todo {
	return []*model.Todo{
		model.NewTodo("a0", "foo", true),
		model.NewTodo("a1", "bar", false),
		model.NewTodo("a2", "baz", true),
	}
}

func TestNew_LoadsSavedTodos(t *testing.T) {
	f := newFixture(t, mixed()...)

	assert.Equal(t, []string{"a0", "a1", "a2"}, f.app.Todos().IDs())
	assert.Equal(t, model.All, f.app.Filter())
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.Add(ctx, "  buy milk  "))

	todos := f.app.Todos().ToArray()
	last := todos[len(todos)-1]
	assert.Equal(t, "buy milk", last.Title)
	assert.False(t, last.Completed)
	assert.Equal(t, []string{"a0", "a1", "a2", "n1"}, f.reload().IDs())
	require.Len(t, f.view.lists, 1, "full refresh")
	require.Len(t, f.view.controls, 1)
	assert.Equal(t, 2, f.view.controls[0].Remaining)
}

func TestToggle_RefreshDependsOnFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.Toggle(ctx, "a1"))
	assert.Len(t, f.view.controls, 1)
	assert.Empty(t, f.view.lists, "under All only controls refresh")
	assert.True(t, f.reload().ToArray()[1].Completed)

	f.app.SetFilter(ctx, model.Active)
	f.view.reset()

	require.NoError(t, f.app.Toggle(ctx, "a0"))
	require.Len(t, f.view.lists, 1)
	assert.Equal(t, []string{"a0"}, f.view.lists[0])
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.Remove(ctx, "a1"))
	require.NoError(t, f.app.Remove(ctx, "missing"))

	assert.Equal(t, []string{"a0", "a2"}, f.reload().IDs())
	assert.Len(t, f.view.lists, 2)
}

func TestEditTitle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.EditTitle(ctx, "a1", "renamed"))

	assert.Equal(t, "renamed", f.reload().ToArray()[1].Title)
	assert.Empty(t, f.view.controls, "edits need no refresh")
	assert.Empty(t, f.view.lists)

	err := f.app.EditTitle(ctx, "missing", "x")
	assert.ErrorIs(t, err, model.ErrTodoNotFound)
}

func TestClearCompleted_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.ClearCompleted(ctx))

	assert.Equal(t, []string{"a1"}, f.app.Todos().IDs())
	reopened := New(ctx, f.repo, nil)
	assert.Equal(t, []string{"a1"}, reopened.Todos().IDs())
	assert.Equal(t, "bar", reopened.Todos().ToArray()[0].Title)
}

func TestSetFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	f.app.SetFilter(ctx, model.Completed)

	assert.Equal(t, model.Completed, f.app.Filter())
	require.Len(t, f.view.lists, 1)
	assert.Equal(t, []string{"a0", "a2"}, f.view.lists[0])
	assert.Equal(t, model.Completed, f.view.controls[0].Filter)
	assert.Equal(t, []string{"a0", "a2"}, f.app.Display().IDs())
}

func TestToggleAllTo_UnderAllDelegatesToView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.ToggleAllTo(ctx, true))

	assert.Equal(t, 1, f.view.Pending(), "only the uncompleted todo is queued")
	assert.Equal(t, 2, f.app.Todos().Completed().Len(), "model untouched")
	assert.Empty(t, f.view.lists)

	require.NoError(t, f.view.Replay(ctx, f.app))
	assert.Equal(t, 0, f.view.Pending())
	assert.True(t, f.reload().Uncompleted().IsEmpty())
}

func TestToggleAllTo_UncheckUnderAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.ToggleAllTo(ctx, false))
	assert.Equal(t, 2, f.view.Pending())

	require.NoError(t, f.view.Replay(ctx, f.app))
	assert.True(t, f.reload().Completed().IsEmpty())
}

func TestToggleAllTo_FilteredUpdatesModel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)
	f.app.SetFilter(ctx, model.Active)
	f.view.reset()

	require.NoError(t, f.app.ToggleAllTo(ctx, true))

	assert.Equal(t, 0, f.view.Pending())
	assert.True(t, f.reload().Uncompleted().IsEmpty())
	require.Len(t, f.view.lists, 1)
	assert.Empty(t, f.view.lists[0])

	require.NoError(t, f.app.ToggleAllTo(ctx, false))
	assert.True(t, f.reload().Completed().IsEmpty())
}

func TestControls(t *testing.T) {
	ctx := context.Background()

	empty := newFixture(t)
	assert.Equal(t, Controls{Filter: model.All}, empty.app.Controls())

	f := newFixture(t, mixed()...)
	c := f.app.Controls()
	assert.Equal(t, 1, c.Remaining)
	assert.Equal(t, 2, c.Completed)
	assert.Equal(t, 3, c.Total)
	assert.True(t, c.ShowClearCompleted)
	assert.False(t, c.ToggleAllChecked)
	assert.True(t, c.Visible)

	require.NoError(t, f.app.Toggle(ctx, "a1"))
	assert.True(t, f.app.Controls().ToggleAllChecked)
}

type failingRepo struct{ *repository.Repository }

func (failingRepo) SaveAll(context.Context, *model.Collection) error { return errors.New("quota exceeded") }

func TestSaveFailureStillRefreshes(t *testing.T) {
	ctx := context.Background()
	view := &recordingView{}
	a := New(ctx, failingRepo{repository.New(memstore.New())}, view)

	err := a.Add(ctx, "x")

	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, 1, a.Todos().Len())
	assert.Len(t, view.lists, 1)
}
