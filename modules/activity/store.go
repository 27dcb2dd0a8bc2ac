package activity

import (
	"sync"
	"time"
)

// Entry is a single recorded activity event.
type Entry struct {
	Kind       string    `json:"kind"`
	Shortlink  string    `json:"shortlink"`
	Detail     string    `json:"detail,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Event kinds recorded in the store.
const (
	KindListClaimed = "list_claimed"
	KindTaskAdded   = "task_added"
)

// DefaultMaxEntries is the default number of activity entries retained.
const DefaultMaxEntries = 1000

// Store is a thread-safe, bounded in-memory record of recent activity.
// Oldest entries are dropped once the limit is reached.
type Store struct {
	mu           sync.RWMutex
	entries      []Entry
	listsClaimed int64
	tasksAdded   int64
	maxEntries   int
}

// NewStore creates a store with the default retention limit.
func NewStore() *Store {
	return NewStoreWithLimit(DefaultMaxEntries)
}

// NewStoreWithLimit creates a store retaining at most maxEntries.
func NewStoreWithLimit(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		entries:    make([]Entry, 0),
		maxEntries: maxEntries,
	}
}

// Record appends an entry, evicting the oldest once over the limit.
func (s *Store) Record(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if len(s.entries) > s.maxEntries {
		excess := len(s.entries) - s.maxEntries
		s.entries = s.entries[excess:]
	}

	switch entry.Kind {
	case KindListClaimed:
		s.listsClaimed++
	case KindTaskAdded:
		s.tasksAdded++
	}
}

// Recent returns the most recent entries, newest last.
func (s *Store) Recent(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil
	}

	start := 0
	if limit > 0 && len(s.entries) > limit {
		start = len(s.entries) - limit
	}

	result := make([]Entry, len(s.entries)-start)
	copy(result, s.entries[start:])
	return result
}

// Summary returns overall counters since startup. The counters keep
// growing even after old entries are evicted.
func (s *Store) Summary() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"lists_claimed": s.listsClaimed,
		"tasks_added":   s.tasksAdded,
		"entries":       len(s.entries),
	}
}
