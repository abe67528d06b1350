// Package epoch tags in-flight fetches so that only the newest response for a
// given target is ever applied. Older responses are dropped on arrival; the
// requests themselves are never cancelled.
package epoch

import "sync"

// Epoch identifies one fetch issued against a Slot. The zero Epoch is never issued.
type Epoch uint64

// Slot holds the latest accepted value for one fetch target.
type Slot[T any] struct {
	mu     sync.Mutex
	latest Epoch
	value  T
	filled bool
}

// Begin issues a new epoch, superseding every earlier one.
func (s *Slot[T]) Begin() Epoch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Commit stores v if e is still the latest epoch and reports whether it did.
func (s *Slot[T]) Commit(e Epoch, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e == 0 || e != s.latest {
		return false
	}
	s.value = v
	s.filled = true
	return true
}

// Current reports whether e is still the latest epoch without storing anything.
func (s *Slot[T]) Current(e Epoch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return e != 0 && e == s.latest
}

// Value returns the last committed value and whether one exists.
func (s *Slot[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.filled
}

// Latest returns the most recently issued epoch.
func (s *Slot[T]) Latest() Epoch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Reset drops the committed value and supersedes every in-flight epoch.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.filled = false
	s.latest++
}
