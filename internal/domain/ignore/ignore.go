// Package ignore holds the set of subjects excluded from every detection.
package ignore

import (
	"sort"
	"strings"
	"sync"

	"github.com/okian/hiscorewatch/internal/domain/model"
)

// Set is a case-insensitive, internally synchronized set of subject names.
type Set struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// New creates a set holding ids.
func New(ids ...string) *Set {
	s := &Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if k := model.Key(id); k != "" {
			s.ids[k] = struct{}{}
		}
	}
	return s
}

// IsIgnored reports whether id is in the set.
func (s *Set) IsIgnored(id string) bool {
	k := model.Key(id)
	if k == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[k]
	return ok
}

// Replace swaps the whole content for ids.
func (s *Set) Replace(ids []string) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if k := model.Key(id); k != "" {
			next[k] = struct{}{}
		}
	}
	s.mu.Lock()
	s.ids = next
	s.mu.Unlock()
}

// Add inserts id. Returns false if it was already present or empty.
func (s *Set) Add(id string) bool {
	k := model.Key(id)
	if k == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[k]; ok {
		return false
	}
	s.ids[k] = struct{}{}
	return true
}

// Remove deletes id. Returns false if it was not present.
func (s *Set) Remove(id string) bool {
	k := model.Key(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[k]; !ok {
		return false
	}
	delete(s.ids, k)
	return true
}

// Toggle flips membership of id and reports whether it is ignored afterwards.
func (s *Set) Toggle(id string) bool {
	k := model.Key(id)
	if k == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[k]; ok {
		delete(s.ids, k)
		return false
	}
	s.ids[k] = struct{}{}
	return true
}

// List returns the ids sorted alphabetically.
func (s *Set) List() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.ids))
	for k := range s.ids {
		out = append(out, k)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Clear empties the set.
func (s *Set) Clear() {
	s.mu.Lock()
	s.ids = make(map[string]struct{})
	s.mu.Unlock()
}

// Len returns the number of ids.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Parse splits a comma-delimited settings value into lower-cased ids,
// dropping blanks.
func Parse(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := model.Key(p); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Join renders ids as the comma-delimited settings value.
func Join(ids []string) string {
	return strings.Join(ids, ",")
}
