package router

import (
	"strings"
	"sync"
)

// MemoryLocation is an in-process Location. Presentation layers navigate it
// the way a browser changes its hash.
type MemoryLocation struct {
	mu       sync.Mutex
	fragment string
	nextID   int
	subs     map[int]func(string)
}

// NewMemoryLocation starts at fragment (normalised to carry a leading '#').
func NewMemoryLocation(fragment string) *MemoryLocation {
	return &MemoryLocation{fragment: normalize(fragment), subs: map[int]func(string){}}
}

func (l *MemoryLocation) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fragment
}

func (l *MemoryLocation) Subscribe(fn func(string)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

// Navigate sets the fragment. Subscribers run only when it actually changes,
// and run outside the lock so they may read the location again.
func (l *MemoryLocation) Navigate(fragment string) {
	fragment = normalize(fragment)
	l.mu.Lock()
	if fragment == l.fragment {
		l.mu.Unlock()
		return
	}
	l.fragment = fragment
	fns := make([]func(string), 0, len(l.subs))
	for i := 0; i < l.nextID; i++ {
		if fn, ok := l.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(fragment)
	}
}

func normalize(fragment string) string {
	if fragment == "" || strings.HasPrefix(fragment, "#") {
		return fragment
	}
	return "#" + fragment
}
