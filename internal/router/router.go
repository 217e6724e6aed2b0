// Package router derives the view filter from the location fragment.
package router

import (
	"github.com/idilsaglam/tada/internal/model"
)

// Location is where the current fragment comes from.
type Location interface {
	// Fragment returns the current fragment including the leading '#'.
	Fragment() string
	// Subscribe calls fn on every fragment change until cancel is called.
	Subscribe(fn func(fragment string)) (cancel func())
}

// Parse maps a fragment to a filter. Unknown fragments select All.
func Parse(fragment string) model.Filter {
	switch fragment {
	case "#/active":
		return model.Active
	case "#/completed":
		return model.Completed
	default:
		return model.All
	}
}

// Router emits a filter whenever the location's fragment changes.
type Router struct {
	loc    Location
	emit   func(model.Filter)
	last   model.Filter
	cancel func()
}

// New wires a router to loc; emit receives every derived filter.
func New(loc Location, emit func(model.Filter)) *Router {
	return &Router{loc: loc, emit: emit}
}

// Start subscribes to fragment changes and emits the filter for the current fragment.
func (r *Router) Start() {
	if r.cancel == nil {
		r.cancel = r.loc.Subscribe(r.OnFragmentChange)
	}
	r.OnFragmentChange(r.loc.Fragment())
}

// Stop unsubscribes from the location.
func (r *Router) Stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// OnFragmentChange re-derives the filter and emits it.
func (r *Router) OnFragmentChange(fragment string) {
	r.last = Parse(fragment)
	if r.emit != nil {
		r.emit(r.last)
	}
}

// Filter is the last filter emitted.
func (r *Router) Filter() model.Filter { return r.last }
