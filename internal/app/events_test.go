package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
)

type countingObserver struct {
	events []Event
	errs   int
	last   Controls
}

func (o *countingObserver) Observe(ev Event, c Controls, err error) {
	o.events = append(o.events, ev)
	o.last = c
	if err != nil {
		o.errs++
	}
}

func TestDispatch_EventTable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.Dispatch(ctx, EventNewItem, "  walk dog "))
	require.NoError(t, f.app.Dispatch(ctx, EventItemToggle, "a1"))
	require.NoError(t, f.app.Dispatch(ctx, EventItemEdited, Edit{ID: "a0", Title: " fooo "}))
	require.NoError(t, f.app.Dispatch(ctx, EventItemDestroy, "a2"))

	got := f.reload()
	assert.Equal(t, []string{"a0", "a1", "n1"}, got.IDs())
	assert.Equal(t, "fooo", got.ToArray()[0].Title)
	assert.True(t, got.ToArray()[1].Completed)
	assert.Equal(t, "walk dog", got.ToArray()[2].Title)

	require.NoError(t, f.app.Dispatch(ctx, EventClearCompleted, nil))
	assert.Equal(t, []string{"n1"}, f.reload().IDs())

	require.NoError(t, f.app.Dispatch(ctx, EventFilterChange, model.Active))
	assert.Equal(t, model.Active, f.app.Filter())

	require.NoError(t, f.app.Dispatch(ctx, EventToggleAllCheck, nil))
	assert.True(t, f.reload().Uncompleted().IsEmpty())
	require.NoError(t, f.app.Dispatch(ctx, EventToggleAllOff, nil))
	assert.True(t, f.reload().Completed().IsEmpty())
}

func TestDispatch_NewItemRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.app.Dispatch(ctx, EventNewItem, "   ")

	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.True(t, f.app.Todos().IsEmpty())
	assert.Empty(t, f.view.lists)
}

func TestDispatch_EditToBlankRemoves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	require.NoError(t, f.app.Dispatch(ctx, EventItemEdited, Edit{ID: "a1", Title: "  "}))

	assert.Equal(t, []string{"a0", "a2"}, f.reload().IDs())
}

func TestDispatch_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mixed()...)

	assert.ErrorIs(t, f.app.Dispatch(ctx, Event("nope"), nil), ErrUnknownEvent)
	assert.ErrorIs(t, f.app.Dispatch(ctx, EventItemToggle, 42), ErrBadPayload)
	assert.ErrorIs(t, f.app.Dispatch(ctx, EventNewItem, nil), ErrBadPayload)
	assert.ErrorIs(t, f.app.Dispatch(ctx, EventItemEdited, "a1"), ErrBadPayload)
	assert.ErrorIs(t, f.app.Dispatch(ctx, EventItemDestroy, 1.5), ErrBadPayload)
	assert.ErrorIs(t, f.app.Dispatch(ctx, EventFilterChange, "#/active"), ErrBadPayload)
	assert.ErrorIs(t, f.app.Dispatch(ctx, EventItemEdited, Edit{ID: "zz", Title: "x"}), model.ErrTodoNotFound)
}

func TestDispatch_Observer(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{}
	f := newFixture(t)
	f.app = New(ctx, f.repo, f.view, WithObserver(obs))

	require.NoError(t, f.app.Dispatch(ctx, EventNewItem, "x"))
	_ = f.app.Dispatch(ctx, EventNewItem, "")

	assert.Equal(t, []Event{EventNewItem, EventNewItem}, obs.events)
	assert.Equal(t, 1, obs.errs)
	assert.Equal(t, 1, obs.last.Total)
}
