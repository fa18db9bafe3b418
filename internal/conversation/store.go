package conversation

import (
	"sync"
	"time"
)

// Store keeps every conversation in memory, keyed by id. Entries are created
// lazily on first reference and are never evicted: history survives for the
// lifetime of the process and nowhere else.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	conv *Conversation
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// With runs fn while holding the conversation's mutex, creating the
// conversation first if id is unknown. Concurrent calls for the same id are
// serialized; different ids proceed in parallel. The *Conversation passed to
// fn must not be retained after fn returns.
func (s *Store) With(id, userID string, fn func(*Conversation) error) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{conv: &Conversation{
			ID:        id,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}}
		s.entries[id] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.conv)
}

// Snapshot returns a deep copy of the conversation, or false if id is unknown.
func (s *Store) Snapshot(id string) (Conversation, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Conversation{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	snap := *e.conv
	snap.Turns = make([]Turn, len(e.conv.Turns))
	copy(snap.Turns, e.conv.Turns)
	return snap, true
}

// Count returns the number of conversations currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
