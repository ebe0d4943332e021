// Package membership tracks who was last seen in a chat channel so that only
// newly present members are reported.
package membership

import (
	"sync"

	"github.com/okian/hiscorewatch/internal/domain/model"
)

// Tracker holds the previous membership snapshot.
type Tracker struct {
	mu       sync.Mutex
	snapshot map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{snapshot: make(map[string]struct{})}
}

// Diff stores current as the new snapshot and returns the normalized names
// that were not in the previous one, in input order.
func (t *Tracker) Diff(current []string) []string {
	next := make(map[string]struct{}, len(current))
	var joined []string

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, raw := range current {
		name := model.NormalizeName(raw)
		k := model.Key(name)
		if k == "" {
			continue
		}
		if _, dup := next[k]; dup {
			continue
		}
		next[k] = struct{}{}
		if _, seen := t.snapshot[k]; !seen {
			joined = append(joined, name)
		}
	}
	t.snapshot = next
	return joined
}

// Reset drops the snapshot immediately.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.snapshot = make(map[string]struct{})
	t.mu.Unlock()
}

// Len returns the size of the current snapshot.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.snapshot)
}
