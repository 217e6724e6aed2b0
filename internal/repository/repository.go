// Package repository persists the todo collection as a JSON record under one
// well-known key of a store.KV.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

// DefaultKey is the storage key the todo list lives under.
const DefaultKey = "todos-tada"

// record is the persisted shape of a todo.
type record struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

const recordSchemaURL = "todos.schema.json"

const recordSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "title": {"type": "string"},
      "completed": {"type": "boolean"}
    }
  }
}`

var recordSchema = jsonschema.MustCompileString(recordSchemaURL, recordSchemaJSON)

// Repository reads and writes the whole todo list.
type Repository struct {
	kv     store.KV
	key    string
	logger *log.Logger
}

type Option func(*Repository)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(r *Repository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithLogger sets the logger used to report discarded data.
func WithLogger(l *log.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a repository over kv.
func New(kv store.KV, opts ...Option) *Repository {
	r := &Repository{kv: kv, key: DefaultKey, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key is the storage key in use.
func (r *Repository) Key() string { return r.key }

// SaveAll replaces the stored list with the contents of c.
func (r *Repository) SaveAll(ctx context.Context, c *model.Collection) error {
	todos := c.ToArray()
	recs := make([]record, len(todos))
	for i, t := range todos {
		recs[i] = record{ID: t.ID, Title: t.Title, Completed: t.Completed}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(b)); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

// GetAll loads the stored list. Anything that cannot be read back as a
// list of todos yields an empty collection; it never fails.
func (r *Repository) GetAll(ctx context.Context) *model.Collection {
	raw, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("todo storage unreadable, starting empty", "key", r.key, "err", err)
		}
		return model.NewCollection()
	}
	recs, err := decode(raw)
	if err != nil {
		r.logger.Warn("stored todos are malformed, starting empty", "key", r.key, "err", err)
		return model.NewCollection()
	}
	c := model.NewCollection()
	for _, rec := range recs {
		if !c.Push(model.NewTodo(rec.ID, rec.Title, rec.Completed)) {
			r.logger.Debug("dropping repeated todo id", "id", rec.ID)
		}
	}
	return c
}

func decode(raw string) ([]record, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := recordSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	var recs []record
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return recs, nil
}
