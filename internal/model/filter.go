package model

// Filter selects which todos are displayed.
type Filter int

const (
	All Filter = iota
	Active
	Completed
)

// IsAll reports whether f shows every todo.
func (f Filter) IsAll() bool { return f == All }

func (f Filter) String() string {
	switch f {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "all"
	}
}

// Fragment is the canonical URL fragment that selects f.
func (f Filter) Fragment() string {
	switch f {
	case Active:
		return "#/active"
	case Completed:
		return "#/completed"
	default:
		return "#/"
	}
}

// Filters lists the filters in display order.
func Filters() []Filter { return []Filter{All, Active, Completed} }
