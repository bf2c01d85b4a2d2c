package history

import (
	"context"
	"sync"
)

// Manager owns one Tracker per session. Trackers are created lazily: the
// first touch of a session loads any persisted entries from the store, later
// touches reuse the in-memory tracker. Saves happen after each record and
// their failures are surfaced to the caller without affecting the tracker.
type Manager struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
	store    Store
	opts     []TrackerOption
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store, opts ...TrackerOption) *Manager {
	return &Manager{
		trackers: make(map[string]*Tracker),
		store:    store,
		opts:     opts,
	}
}

// Tracker returns the tracker for a session, creating it from persisted
// state if needed. A store load failure starts the session empty; the error
// is returned alongside the usable tracker.
func (m *Manager) Tracker(ctx context.Context, sessionID string) (*Tracker, error) {
	m.mu.Lock()
	if t, ok := m.trackers[sessionID]; ok {
		m.mu.Unlock()
		return t, nil
	}
	m.mu.Unlock()

	// Load outside the manager lock: the store may do network I/O.
	var loadErr error
	var entries []Entry
	if m.store != nil {
		entries, loadErr = m.store.Load(ctx, sessionID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have created the tracker while we loaded.
	if t, ok := m.trackers[sessionID]; ok {
		return t, nil
	}
	t := NewTrackerFromEntries(entries, m.opts...)
	m.trackers[sessionID] = t
	return t, loadErr
}

// Record records a question against a session and persists the new state.
// The in-memory record always succeeds; the returned error reports a
// persistence failure only.
func (m *Manager) Record(ctx context.Context, sessionID, question string) error {
	t, _ := m.Tracker(ctx, sessionID)
	entries := t.Record(question)

	if m.store == nil {
		return nil
	}
	return m.store.Save(ctx, sessionID, entries)
}

// List returns a session's entries, most-recent-first.
func (m *Manager) List(ctx context.Context, sessionID string) ([]Entry, error) {
	t, err := m.Tracker(ctx, sessionID)
	return t.List(), err
}

// Sessions returns the number of sessions with an in-memory tracker.
func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trackers)
}
