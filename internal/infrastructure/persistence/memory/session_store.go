// Package memory provides in-process persistence fallbacks used when Redis
// or Postgres are disabled. Data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/history"
)

// SessionStore is an in-memory history.Store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]history.Entry
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]history.Entry)}
}

// Load implements history.Store.
func (s *SessionStore) Load(_ context.Context, sessionID string) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]history.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Save implements history.Store.
func (s *SessionStore) Save(_ context.Context, sessionID string, entries []history.Entry) error {
	stored := make([]history.Entry, len(entries))
	copy(stored, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = stored
	return nil
}
