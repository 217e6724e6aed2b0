package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idilsaglam/tada/internal/model"
)

// Event names an input coming from the presentation layer.
type Event string

const (
	EventNewItem        Event = "todo-new-item"
	EventItemToggle     Event = "todo-item-toggle"
	EventItemDestroy    Event = "todo-item-destroy"
	EventItemEdited     Event = "todo-item-edited"
	EventClearCompleted Event = "todo-clear-completed"
	EventToggleAllCheck Event = "toggle-all-check"
	EventToggleAllOff   Event = "toggle-all-uncheck"
	EventFilterChange   Event = "filterchange"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrBadPayload   = errors.New("bad event payload")
	ErrEmptyTitle   = errors.New("title cannot be empty")
)

// Edit is the payload of EventItemEdited.
type Edit struct {
	ID    string
	Title string
}

// Handler consumes one event payload.
type Handler func(ctx context.Context, payload any) error

// handlers is the subscription table, built once in New.
func (a *App) handlers() map[Event]Handler {
	return map[Event]Handler{
		EventNewItem: func(ctx context.Context, p any) error {
			title, ok := p.(string)
			if !ok {
				return badPayload(EventNewItem, p)
			}
			title = strings.TrimSpace(title)
			if title == "" {
				return ErrEmptyTitle
			}
			return a.Add(ctx, title)
		},
		EventItemToggle: func(ctx context.Context, p any) error {
			id, ok := p.(string)
			if !ok {
				return badPayload(EventItemToggle, p)
			}
			return a.Toggle(ctx, id)
		},
		EventItemDestroy: func(ctx context.Context, p any) error {
			id, ok := p.(string)
			if !ok {
				return badPayload(EventItemDestroy, p)
			}
			return a.Remove(ctx, id)
		},
		EventItemEdited: func(ctx context.Context, p any) error {
			e, ok := p.(Edit)
			if !ok {
				return badPayload(EventItemEdited, p)
			}
			title := strings.TrimSpace(e.Title)
			if title == "" {
				return a.Remove(ctx, e.ID)
			}
			return a.EditTitle(ctx, e.ID, title)
		},
		EventClearCompleted: func(ctx context.Context, _ any) error {
			return a.ClearCompleted(ctx)
		},
		EventToggleAllCheck: func(ctx context.Context, _ any) error {
			return a.ToggleAllTo(ctx, true)
		},
		EventToggleAllOff: func(ctx context.Context, _ any) error {
			return a.ToggleAllTo(ctx, false)
		},
		EventFilterChange: func(ctx context.Context, p any) error {
			f, ok := p.(model.Filter)
			if !ok {
				return badPayload(EventFilterChange, p)
			}
			a.SetFilter(ctx, f)
			return nil
		},
	}
}

func badPayload(ev Event, p any) error {
	return fmt.Errorf("%w: %s got %T", ErrBadPayload, ev, p)
}
