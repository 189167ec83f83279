package router

import (
	"context"
	"sync"
)

// Location is where a History currently stands.
type Location struct {
	Path  string
	Route Route
	Title string
}

// History is an in-memory navigator: it applies guard decisions and records
// where the user has been.
type History struct {
	guard *Guard

	mu      sync.Mutex
	entries []Location
	onEnter func(Location)
}

// NewHistory returns an empty History driven by guard.
func NewHistory(guard *Guard) *History {
	return &History{guard: guard}
}

// OnEnter registers fn to run after every successful navigation.
func (h *History) OnEnter(fn func(Location)) {
	h.mu.Lock()
	h.onEnter = fn
	h.mu.Unlock()
}

// Navigate guards target and, when it resolves, pushes the final location.
func (h *History) Navigate(ctx context.Context, target string) (Decision, error) {
	d, err := h.guard.Resolve(ctx, target)
	if err != nil {
		return Decision{}, err
	}
	h.push(d)
	return d, nil
}

// Back re-guards the previous entry and moves to wherever it resolves.
// It reports false when there is nothing to go back to.
func (h *History) Back(ctx context.Context) (Decision, bool, error) {
	h.mu.Lock()
	if len(h.entries) < 2 {
		h.mu.Unlock()
		return Decision{}, false, nil
	}
	prev := h.entries[len(h.entries)-2].Path
	h.entries = h.entries[:len(h.entries)-2]
	h.mu.Unlock()

	d, err := h.Navigate(ctx, prev)
	return d, true, err
}

// Current returns the latest location.
func (h *History) Current() (Location, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return Location{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Entries returns a copy of the visited locations, oldest first.
func (h *History) Entries() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Location(nil), h.entries...)
}

func (h *History) push(d Decision) {
	loc := Location{
		Path:  d.Location,
		Route: d.Route,
		Title: h.guard.Table().Title(d.Route.Name),
	}

	h.mu.Lock()
	h.entries = append(h.entries, loc)
	fn := h.onEnter
	h.mu.Unlock()

	if fn != nil {
		fn(loc)
	}
}
