package model

import "errors"

// ErrTodoNotFound is returned when an id does not name a todo in the collection.
var ErrTodoNotFound = errors.New("todo not found")

// Todo is the domain model for a todo entry.
// The entity stores what it is given; titles are checked where input enters.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewTodo builds a todo from its three fields, e.g. when restoring saved data.
func NewTodo(id, title string, completed bool) *Todo {
	return &Todo{ID: id, Title: title, Completed: completed}
}

// Toggle flips the completion flag.
func (t *Todo) Toggle() { t.Completed = !t.Completed }
