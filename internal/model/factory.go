package model

import (
	"strings"

	"github.com/google/uuid"
)

// Factory creates new todos from user input.
type Factory struct {
	newID func() string
}

// FactoryOption tunes a Factory.
type FactoryOption func(*Factory)

// WithIDGenerator replaces the UUID generator (handy for deterministic tests).
func WithIDGenerator(gen func() string) FactoryOption {
	return func(f *Factory) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// NewFactory returns a factory issuing random UUID ids.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{newID: uuid.NewString}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateByTitle returns a fresh, uncompleted todo with a trimmed title.
// Callers are expected to reject empty titles before getting here.
func (f *Factory) CreateByTitle(title string) *Todo {
	return NewTodo(f.newID(), strings.TrimSpace(title), false)
}
