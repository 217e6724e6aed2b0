// Package app holds the orchestrator: it owns the canonical todo list and the
// current filter, runs every user intent against them, persists the result
// and tells the view what to redraw.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
)

// Repository is the persistence the app needs.
type Repository interface {
	SaveAll(ctx context.Context, c *model.Collection) error
	GetAll(ctx context.Context) *model.Collection
}

// Observer is told about every dispatched event, e.g. to record metrics.
type Observer interface {
	Observe(ev Event, c Controls, err error)
}

// App is the todo application. It is not safe for concurrent use;
// callers serialize access.
type App struct {
	factory  *model.Factory
	repo     Repository
	view     View
	logger   *log.Logger
	observer Observer

	todos  *model.Collection
	filter model.Filter

	table map[Event]Handler
}

type Option func(*App)

// WithFactory replaces the default UUID factory.
func WithFactory(f *model.Factory) Option {
	return func(a *App) { a.factory = f }
}

func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

func WithObserver(o Observer) Option {
	return func(a *App) { a.observer = o }
}

// New loads the saved todos and returns an app showing all of them.
func New(ctx context.Context, repo Repository, view View, opts ...Option) *App {
	if view == nil {
		view = NopView{}
	}
	a := &App{
		factory: model.NewFactory(),
		repo:    repo,
		view:    view,
		logger:  logging.NewNop(),
		filter:  model.All,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.todos = repo.GetAll(ctx)
	a.table = a.handlers()
	a.logger.Debug("todos loaded", "count", a.todos.Len())
	return a
}

// Dispatch routes an event to its handler.
func (a *App) Dispatch(ctx context.Context, ev Event, payload any) error {
	h, ok := a.table[ev]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev)
	}
	err := h(ctx, payload)
	if err != nil {
		a.logger.Debug("event failed", "event", ev, "err", err)
	}
	if a.observer != nil {
		a.observer.Observe(ev, a.Controls(), err)
	}
	return err
}

// Add appends a new todo titled title.
func (a *App) Add(ctx context.Context, title string) error {
	todo := a.factory.CreateByTitle(title)
	a.todos.Push(todo)
	err := a.save(ctx)
	a.refreshAll()
	return err
}

// Toggle flips the completion of id. Under the All filter nothing leaves
// the list, so only the controls are redrawn.
func (a *App) Toggle(ctx context.Context, id string) error {
	a.todos.ToggleByID(id)
	err := a.save(ctx)
	if a.filter.IsAll() {
		a.refreshControls()
	} else {
		a.refreshAll()
	}
	return err
}

// Remove deletes id.
func (a *App) Remove(ctx context.Context, id string) error {
	a.todos.RemoveByID(id)
	err := a.save(ctx)
	a.refreshAll()
	return err
}

// EditTitle renames id in place. Visibility and counts do not change, so
// nothing is redrawn.
func (a *App) EditTitle(ctx context.Context, id, title string) error {
	todo, ok := a.todos.GetByID(id)
	if !ok {
		return fmt.Errorf("edit %s: %w", id, model.ErrTodoNotFound)
	}
	todo.Title = title
	return a.save(ctx)
}

// ClearCompleted drops every completed todo.
func (a *App) ClearCompleted(ctx context.Context) error {
	a.todos = a.todos.Uncompleted()
	err := a.save(ctx)
	a.refreshAll()
	return err
}

// SetFilter changes which todos are displayed.
func (a *App) SetFilter(ctx context.Context, f model.Filter) {
	a.filter = f
	a.refreshAll()
}

// ToggleAllTo sets every todo to completed. Under the All filter the view is
// asked to flip the todos that differ; otherwise the model is updated here.
func (a *App) ToggleAllTo(ctx context.Context, completed bool) error {
	if a.filter.IsAll() {
		subset := a.todos.Uncompleted()
		if !completed {
			subset = a.todos.Completed()
		}
		a.view.ToggleAll(subset)
		return nil
	}
	if completed {
		a.todos.CompleteAll()
	} else {
		a.todos.UncompleteAll()
	}
	err := a.save(ctx)
	a.refreshAll()
	return err
}

// Todos is the canonical collection. Callers must not mutate it.
func (a *App) Todos() *model.Collection { return a.todos }

func (a *App) Filter() model.Filter { return a.filter }

// Display is the collection visible under the current filter.
func (a *App) Display() *model.Collection { return a.todos.FilterBy(a.filter) }

// Controls computes the summary state.
func (a *App) Controls() Controls {
	remaining := a.todos.Uncompleted().Len()
	total := a.todos.Len()
	return Controls{
		Filter:             a.filter,
		Remaining:          remaining,
		Completed:          total - remaining,
		Total:              total,
		ShowClearCompleted: total-remaining > 0,
		ToggleAllChecked:   total > 0 && remaining == 0,
		Visible:            total > 0,
	}
}

func (a *App) save(ctx context.Context) error {
	if err := a.repo.SaveAll(ctx, a.todos); err != nil {
		a.logger.Error("saving todos failed", "err", err)
		return err
	}
	return nil
}

func (a *App) refreshControls() {
	a.view.RefreshControls(a.Controls())
}

func (a *App) refreshAll() {
	a.refreshControls()
	a.view.RefreshList(a.Display(), a.filter)
}
