package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_TruncatesAtFiftyWithEllipsis(t *testing.T) {
	long := strings.Repeat("a", 60)
	summary := Summarize(long, DefaultSummaryLength)

	assert.Len(t, summary, 53)
	assert.True(t, strings.HasSuffix(summary, "..."))
	assert.Equal(t, strings.Repeat("a", 50), strings.TrimSuffix(summary, "..."))
}

func TestSummarize_ShortQuestionUnchanged(t *testing.T) {
	assert.Equal(t, "short", Summarize("short", DefaultSummaryLength))
	assert.Equal(t, "", Summarize("", DefaultSummaryLength))

	// Exactly at the limit: no suffix.
	exact := strings.Repeat("x", 50)
	assert.Equal(t, exact, Summarize(exact, DefaultSummaryLength))
}

func TestSummarize_CountsRunesNotBytes(t *testing.T) {
	long := strings.Repeat("ё", 60)
	summary := Summarize(long, DefaultSummaryLength)

	assert.Equal(t, 53, len([]rune(summary)))
	assert.True(t, strings.HasSuffix(summary, "..."))
}

func TestTracker_CapacityEvictsOldest(t *testing.T) {
	tracker := NewTracker()

	for i := 1; i <= 11; i++ {
		tracker.Record(fmt.Sprintf("question %d", i))
	}

	entries := tracker.List()
	require.Len(t, entries, 10)

	// Most-recent-first; question 1 (the oldest) was dropped.
	assert.Equal(t, "question 11", entries[0].QuestionSummary)
	assert.Equal(t, "question 2", entries[9].QuestionSummary)
	for _, e := range entries {
		assert.NotEqual(t, "question 1", e.QuestionSummary)
	}
}

func TestTracker_ListIsMostRecentFirst(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	tracker := NewTracker(WithClock(func() time.Time {
		tick++
		return now.Add(time.Duration(tick) * time.Second)
	}))

	tracker.Record("first")
	tracker.Record("second")
	tracker.Record("third")

	entries := tracker.List()
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].QuestionSummary)
	assert.Equal(t, "second", entries[1].QuestionSummary)
	assert.Equal(t, "first", entries[2].QuestionSummary)
	assert.True(t, entries[0].AskedAt.After(entries[2].AskedAt))
}

func TestTracker_ListDoesNotMutate(t *testing.T) {
	tracker := NewTracker()
	tracker.Record("only")

	first := tracker.List()
	second := tracker.List()
	assert.Equal(t, first, second)

	// Mutating the returned slice must not affect tracker state.
	first[0].QuestionSummary = "mutated"
	assert.Equal(t, "only", tracker.List()[0].QuestionSummary)
}

func TestTracker_ConcurrentRecordLosesNothing(t *testing.T) {
	tracker := NewTracker(WithCapacity(200))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tracker.Record(fmt.Sprintf("q%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, tracker.Len())
}

// flakyStore fails Save but remembers what was attempted.
type flakyStore struct {
	mu      sync.Mutex
	saves   int
	failing bool
	data    map[string][]Entry
}

func newFlakyStore() *flakyStore {
	return &flakyStore{data: make(map[string][]Entry)}
}

func (s *flakyStore) Load(_ context.Context, sessionID string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[sessionID], nil
}

func (s *flakyStore) Save(_ context.Context, sessionID string, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failing {
		return errors.New("store unreachable")
	}
	s.data[sessionID] = entries
	return nil
}

func TestManager_RecordPersistsAfterEachRecord(t *testing.T) {
	store := newFlakyStore()
	manager := NewManager(store)
	ctx := context.Background()

	require.NoError(t, manager.Record(ctx, "s1", "what is a derivative?"))
	require.NoError(t, manager.Record(ctx, "s1", "what is an integral?"))

	assert.Equal(t, 2, store.saves)
	persisted, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.Equal(t, "what is an integral?", persisted[0].QuestionSummary)
}

func TestManager_StoreFailureDoesNotLoseInMemoryEntry(t *testing.T) {
	store := newFlakyStore()
	store.failing = true
	manager := NewManager(store)
	ctx := context.Background()

	err := manager.Record(ctx, "s1", "lost to disk, kept in memory")
	assert.Error(t, err)

	entries, listErr := manager.List(ctx, "s1")
	require.NoError(t, listErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "lost to disk, kept in memory", entries[0].QuestionSummary)
}

func TestManager_LoadsPersistedSessionState(t *testing.T) {
	store := newFlakyStore()
	ctx := context.Background()

	seeded := NewManager(store)
	require.NoError(t, seeded.Record(ctx, "s1", "remembered across restarts"))

	// A fresh manager simulates a new process over the same store.
	fresh := NewManager(store)
	entries, err := fresh.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "remembered across restarts", entries[0].QuestionSummary)
}

func TestManager_NilStoreIsInMemoryOnly(t *testing.T) {
	manager := NewManager(nil)
	ctx := context.Background()

	require.NoError(t, manager.Record(ctx, "s1", "ephemeral"))
	entries, err := manager.List(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, manager.Sessions())
}
