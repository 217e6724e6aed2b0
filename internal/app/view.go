package app

import (
	"context"

	"github.com/idilsaglam/tada/internal/model"
)

// Controls is the summary state shown around the list.
type Controls struct {
	Filter             model.Filter
	Remaining          int
	Completed          int
	Total              int
	ShowClearCompleted bool
	ToggleAllChecked   bool
	Visible            bool
}

// View is the presentation layer the app asks to redraw.
type View interface {
	// RefreshControls redraws counters, buttons and visibility.
	RefreshControls(c Controls)
	// RefreshList redraws the list with the todos visible under f.
	RefreshList(display *model.Collection, f model.Filter)
	// ToggleAll flips the displayed state of every todo in subset.
	ToggleAll(subset *model.Collection)
}

// ToggleQueue records bulk toggle requests so a view can replay them as
// ordinary item toggles once the current event is done.
// Embed it in a View to get its ToggleAll method.
type ToggleQueue struct {
	ids []string
}

func (q *ToggleQueue) ToggleAll(subset *model.Collection) {
	q.ids = append(q.ids, subset.IDs()...)
}

// Pending reports how many toggles are queued.
func (q *ToggleQueue) Pending() int { return len(q.ids) }

// Replay dispatches one item toggle per queued id and empties the queue.
func (q *ToggleQueue) Replay(ctx context.Context, a *App) error {
	ids := q.ids
	q.ids = nil
	for _, id := range ids {
		if err := a.Dispatch(ctx, EventItemToggle, id); err != nil {
			return err
		}
	}
	return nil
}

// NopView ignores every refresh.
type NopView struct{}

func (NopView) RefreshControls(Controls)                     {}
func (NopView) RefreshList(*model.Collection, model.Filter) {}
func (NopView) ToggleAll(*model.Collection)                  {}
