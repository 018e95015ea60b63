// Package store holds the client-side copy of backend entities. Each entity
// has a Slice guarding its list, the selected item and the status of the last
// call; the Hub ties them to a Backend.
package store

import (
	"sync"
)

// State is a copy of a Slice's contents.
type State[T any] struct {
	Items    []T
	Selected *T
	Loading  bool
	Success  bool
	Error    string
}

// Slice is the state for one entity kind. The zero value is not usable; use
// NewSlice.
type Slice[T any] struct {
	mu    sync.Mutex
	state State[T]
	id    func(T) string
}

// NewSlice creates a slice keyed by id.
func NewSlice[T any](id func(T) string) *Slice[T] {
	return &Slice[T]{id: id}
}

// Snapshot returns a copy of the current state.
func (s *Slice[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Items = append([]T(nil), s.state.Items...)
	if s.state.Selected != nil {
		sel := *s.state.Selected
		out.Selected = &sel
	}
	return out
}

// Reset clears the slice, as when leaving a product.
func (s *Slice[T]) Reset() {
	s.mu.Lock()
	s.state = State[T]{}
	s.mu.Unlock()
}

func (s *Slice[T]) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Slice[T]) fail(msg string) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Success = false
	s.state.Error = msg
	s.mu.Unlock()
}

// loaded replaces the items. List calls do not touch Success.
func (s *Slice[T]) loaded(items []T) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Items = append([]T(nil), items...)
	s.mu.Unlock()
}

func (s *Slice[T]) selected(item T) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Success = true
	s.state.Selected = &item
	s.mu.Unlock()
}

func (s *Slice[T]) appended(item T) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Success = true
	s.state.Items = append(s.state.Items, item)
	s.mu.Unlock()
}

func (s *Slice[T]) replaced(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Success = true
	key := s.id(item)
	for i := range s.state.Items {
		if s.id(s.state.Items[i]) == key {
			s.state.Items[i] = item
		}
	}
	if s.state.Selected != nil && s.id(*s.state.Selected) == key {
		s.state.Selected = &item
	}
}

func (s *Slice[T]) removed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Success = true
	kept := make([]T, 0, len(s.state.Items))
	for _, it := range s.state.Items {
		if s.id(it) != id {
			kept = append(kept, it)
		}
	}
	s.state.Items = kept
	if s.state.Selected != nil && s.id(*s.state.Selected) == id {
		s.state.Selected = nil
	}
}

// settled clears Loading after a batch, recording the outcome.
func (s *Slice[T]) settled(err error, msg string) {
	if err != nil {
		s.fail(msg)
		return
	}
	s.mu.Lock()
	s.state.Loading = false
	s.state.Success = true
	s.mu.Unlock()
}
