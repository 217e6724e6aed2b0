package model

// Collection is an ordered list of todos. Insertion order is display order.
//
// Only the canonical collection owned by the app is ever mutated. Completed,
// Uncompleted and FilterBy return derived collections that share the same
// *Todo values and are safe to discard.
type Collection struct {
	todos []*Todo
}

// NewCollection wraps todos, dropping any repeated id (first one wins).
func NewCollection(todos ...*Todo) *Collection {
	c := &Collection{todos: make([]*Todo, 0, len(todos))}
	for _, t := range todos {
		c.Push(t)
	}
	return c
}

// Push appends t. It refuses nil and ids already present, reporting false.
func (c *Collection) Push(t *Todo) bool {
	if t == nil || c.index(t.ID) >= 0 {
		return false
	}
	c.todos = append(c.todos, t)
	return true
}

// GetByID returns the todo itself, so edits are visible through the collection.
func (c *Collection) GetByID(id string) (*Todo, bool) {
	if i := c.index(id); i >= 0 {
		return c.todos[i], true
	}
	return nil, false
}

// ToggleByID flips completion of the todo with id; unknown ids are ignored.
func (c *Collection) ToggleByID(id string) {
	if t, ok := c.GetByID(id); ok {
		t.Toggle()
	}
}

// RemoveByID drops the todo with id; unknown ids are ignored.
func (c *Collection) RemoveByID(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.todos = append(c.todos[:i:i], c.todos[i+1:]...)
}

func (c *Collection) Completed() *Collection {
	return c.where(func(t *Todo) bool { return t.Completed })
}

func (c *Collection) Uncompleted() *Collection {
	return c.where(func(t *Todo) bool { return !t.Completed })
}

// CompleteAll marks every todo completed.
func (c *Collection) CompleteAll() { c.setAll(true) }

// UncompleteAll marks every todo active.
func (c *Collection) UncompleteAll() { c.setAll(false) }

// FilterBy returns c itself for All, otherwise the matching derived view.
func (c *Collection) FilterBy(f Filter) *Collection {
	switch f {
	case Active:
		return c.Uncompleted()
	case Completed:
		return c.Completed()
	default:
		return c
	}
}

func (c *Collection) IsEmpty() bool { return len(c.todos) == 0 }

func (c *Collection) Len() int { return len(c.todos) }

// ToArray exposes the underlying slice. Callers must not modify it.
func (c *Collection) ToArray() []*Todo { return c.todos }

// IDs returns the ids in order.
func (c *Collection) IDs() []string {
	ids := make([]string, len(c.todos))
	for i, t := range c.todos {
		ids[i] = t.ID
	}
	return ids
}

func (c *Collection) index(id string) int {
	for i, t := range c.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection) where(keep func(*Todo) bool) *Collection {
	out := &Collection{todos: make([]*Todo, 0, len(c.todos))}
	for _, t := range c.todos {
		if keep(t) {
			out.todos = append(out.todos, t)
		}
	}
	return out
}

func (c *Collection) setAll(completed bool) {
	for _, t := range c.todos {
		t.Completed = completed
	}
}
