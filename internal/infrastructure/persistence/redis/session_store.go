package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/history"
)

// SessionStore implements history.Store on top of the generic Cache. Each
// session's entries are stored as one JSON document under a session key with
// a sliding TTL, so idle sessions age out on their own.
type SessionStore struct {
	cache *Cache
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

// Load returns the persisted entries for a session, most-recent-first.
// A session with no persisted history returns an empty slice.
func (s *SessionStore) Load(ctx context.Context, sessionID string) ([]history.Entry, error) {
	var entries []history.Entry
	err := s.cache.Get(ctx, SessionKey(sessionID), &entries)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("session store: load %s: %w", sessionID, err)
	}
	return entries, nil
}

// Save replaces the persisted entries for a session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, entries []history.Entry) error {
	if err := s.cache.Set(ctx, SessionKey(sessionID), entries, TTLSessionHistory); err != nil {
		return fmt.Errorf("session store: save %s: %w", sessionID, err)
	}
	return nil
}
