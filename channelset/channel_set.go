// Package channelset provides an ordered, case-normalizing set of channel
// names, safe for concurrent use.
package channelset

import (
	"strings"
	"sync"
)

// Set stores channel names in insertion order, keyed by their lowercase
// form. Every operation normalizes its argument with strings.ToLower, so
// "General" and "general" refer to the same member. Safe for concurrent use
// by multiple goroutines.
type Set struct {
	mu    sync.RWMutex
	index map[string]struct{}
	order []string
}

// New creates and returns a new empty Set.
func New() *Set {
	return &Set{index: make(map[string]struct{})}
}

// Add inserts a channel name into the set.
//
// Parameters:
//   - name: The channel name; normalized to lowercase before insertion
//
// Returns:
//   - true if the name was added, false if it was already a member
func (s *Set) Add(name string) bool {
	name = strings.ToLower(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[name]; ok {
		return false
	}

	s.index[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// Remove deletes a channel name from the set.
//
// Parameters:
//   - name: The channel name; normalized to lowercase before lookup
//
// Returns:
//   - true if the name was removed, false if it was not a member
func (s *Set) Remove(name string) bool {
	name = strings.ToLower(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[name]; !ok {
		return false
	}

	delete(s.index, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return true
}

// Contains reports whether the set holds the given channel name.
//
// Parameters:
//   - name: The channel name; normalized to lowercase before lookup
//
// Returns:
//   - true if the set contains the name, false otherwise
func (s *Set) Contains(name string) bool {
	name = strings.ToLower(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[name]
	return ok
}

// Names returns the members in insertion order. The returned slice is a copy
// and may be modified freely by the caller.
//
// Returns:
//   - The channel names in the order they were added
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of members in the set.
//
// Returns:
//   - The number of channel names currently held
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Reset removes all members, leaving the set empty.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]struct{})
	s.order = nil
}
