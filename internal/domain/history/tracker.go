// Package history maintains the bounded, ordered log of previously asked
// questions per client session. The log is a convenience cache supporting
// "ask again" workflows, not a system of record: persistence is delegated to
// an injected session store, and a store failure never fails a record.
package history

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Defaults for the configuration surface consumed by the tracker.
const (
	// DefaultCapacity is the maximum number of entries kept per session.
	DefaultCapacity = 10

	// DefaultSummaryLength is the truncation length for question summaries,
	// in characters (code points).
	DefaultSummaryLength = 50
)

// truncationSuffix marks a summary that was cut at the length limit.
const truncationSuffix = "..."

// Entry is a single remembered question. Entries are immutable once created
// and exclusively owned by their session's tracker.
type Entry struct {
	// QuestionSummary is the question text truncated to the summary length,
	// with "..." appended when truncation occurred.
	QuestionSummary string `json:"question_summary"`

	// AskedAt is when the question was recorded.
	AskedAt time.Time `json:"asked_at"`
}

// Store persists session history outside the process. Implementations own
// their own availability; the tracker treats Save errors as reportable but
// non-fatal, and a Load error simply starts the session empty.
type Store interface {
	// Load returns the persisted entries for a session, most-recent-first.
	// A session with no persisted history returns an empty slice, not an error.
	Load(ctx context.Context, sessionID string) ([]Entry, error)

	// Save replaces the persisted entries for a session.
	Save(ctx context.Context, sessionID string, entries []Entry) error
}

// Summarize truncates a question to limit characters, appending "..." when
// the text was cut. Counting is by code point, matching how callers see
// "characters", not bytes.
func Summarize(question string, limit int) string {
	if limit <= 0 {
		limit = DefaultSummaryLength
	}
	runes := []rune(strings.TrimRight(question, "\n"))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + truncationSuffix
}

// Tracker is the per-session bounded question log. All methods are safe for
// concurrent use; Record applies append-then-trim as one indivisible step so
// concurrent asks against the same session cannot lose entries.
type Tracker struct {
	mu            sync.Mutex
	entries       []Entry // most-recent-first
	capacity      int
	summaryLength int
	now           func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithCapacity overrides the entry capacity.
func WithCapacity(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithSummaryLength overrides the summary truncation length.
func WithSummaryLength(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.summaryLength = n
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		capacity:      DefaultCapacity,
		summaryLength: DefaultSummaryLength,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTrackerFromEntries creates a tracker seeded with persisted entries
// (most-recent-first), trimming to capacity.
func NewTrackerFromEntries(entries []Entry, opts ...TrackerOption) *Tracker {
	t := NewTracker(opts...)
	if len(entries) > t.capacity {
		entries = entries[:t.capacity]
	}
	t.entries = make([]Entry, len(entries))
	copy(t.entries, entries)
	return t
}

// Record appends a question to the log: summarize, prepend with the current
// instant, drop the oldest entries beyond capacity. It returns the entries
// after the mutation so callers can persist without a second lock.
func (t *Tracker) Record(question string) []Entry {
	entry := Entry{
		QuestionSummary: Summarize(question, t.summaryLength),
		AskedAt:         t.now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append([]Entry{entry}, t.entries...)
	if len(t.entries) > t.capacity {
		t.entries = t.entries[:t.capacity]
	}

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// List returns the current entries, most-recent-first. Pure read, no hidden
// mutation.
func (t *Tracker) List() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the current number of entries.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
