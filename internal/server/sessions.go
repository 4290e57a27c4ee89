package server

import (
	"sync"
	"time"
)

// SessionStore tracks session IDs issued by initialize, expiring them after
// their TTL. Safe for concurrent access.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]time.Time
}

// NewSessionStore constructs an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[string]time.Time)}
}

// Add registers a session ID with a time-to-live.
func (s *SessionStore) Add(id string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = time.Now().Add(ttl)
}

// Valid reports whether the session ID exists and has not expired. Expired
// entries are removed on lookup.
func (s *SessionStore) Valid(id string) bool {
	s.mu.RLock()
	exp, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		s.mu.Lock()
		delete(s.items, id)
		s.mu.Unlock()
		return false
	}
	return true
}
