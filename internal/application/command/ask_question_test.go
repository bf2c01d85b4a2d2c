package command

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/history"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/knowledge"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) byType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) ([]history.Entry, error) {
	return nil, nil
}

func (failingStore) Save(context.Context, string, []history.Entry) error {
	return errors.New("store unreachable")
}

func newHandler(store history.Store, publisher shared.EventPublisher) (*AskQuestionHandler, *history.Manager) {
	sessions := history.NewManager(store)
	h := NewAskQuestionHandler(
		knowledge.NewResolver(knowledge.DefaultCatalog()),
		sessions,
		publisher,
		nil,
		logger.New(io.Discard, logger.LevelError),
	)
	return h, sessions
}

func TestHandle_KnownConceptIntermediate(t *testing.T) {
	publisher := &capturingPublisher{}
	h, _ := newHandler(nil, publisher)

	result, err := h.Handle(context.Background(), AskQuestionCommand{
		SessionID:       "sess-1",
		Question:        "What is a derivative?",
		ConceptType:     "calculus",
		DifficultyLevel: "intermediate",
		StudentID:       "s1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Explanation)
	assert.GreaterOrEqual(t, len(result.KeyPoints), 1)
	assert.Equal(t, "calculus", result.ConceptType)
	assert.Equal(t, "intermediate", result.DifficultyLevel)
	assert.Equal(t, "s1", result.StudentID)

	asked := publisher.byType(shared.EventQuestionAsked)
	require.Len(t, asked, 1)
}

func TestHandle_UnknownConceptAndDifficultyDoesNotFail(t *testing.T) {
	h, _ := newHandler(nil, &capturingPublisher{})

	result, err := h.Handle(context.Background(), AskQuestionCommand{
		SessionID:       "sess-1",
		Question:        "",
		ConceptType:     "quantum-foo",
		DifficultyLevel: "expert",
	})

	require.NoError(t, err)
	assert.Equal(t, "intermediate", result.DifficultyLevel)
	assert.Contains(t, result.Explanation, "quantum-foo")
	assert.NotEmpty(t, result.KeyPoints)
	assert.Empty(t, result.StudentID)
}

func TestHandle_RecordsExactlyOneHistoryEntryPerAsk(t *testing.T) {
	h, sessions := newHandler(nil, &capturingPublisher{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.Handle(ctx, AskQuestionCommand{
			SessionID:   "sess-1",
			Question:    "What is a matrix?",
			ConceptType: "algebra",
		})
		require.NoError(t, err)
	}

	entries, err := sessions.List(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestHandle_StoreFailureStillAnswers(t *testing.T) {
	publisher := &capturingPublisher{}
	h, sessions := newHandler(failingStore{}, publisher)
	ctx := context.Background()

	result, err := h.Handle(ctx, AskQuestionCommand{
		SessionID:       "sess-1",
		Question:        "Why do heaps exist?",
		ConceptType:     "data-structures",
		DifficultyLevel: "advanced",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Explanation)

	// The failure is reported as an event, not as an ask error.
	failed := publisher.byType(shared.EventHistoryStoreFailed)
	assert.Len(t, failed, 1)

	// In-memory history still advanced.
	entries, listErr := sessions.List(ctx, "sess-1")
	require.NoError(t, listErr)
	assert.Len(t, entries, 1)
}

func TestHandle_MissingSessionRejected(t *testing.T) {
	h, _ := newHandler(nil, &capturingPublisher{})

	_, err := h.Handle(context.Background(), AskQuestionCommand{
		Question:    "no session",
		ConceptType: "algebra",
	})
	assert.Error(t, err)
}

func TestHandle_NormalizesConceptSpelling(t *testing.T) {
	h, _ := newHandler(nil, &capturingPublisher{})

	result, err := h.Handle(context.Background(), AskQuestionCommand{
		SessionID:       "sess-1",
		Question:        "linked lists?",
		ConceptType:     "Data_Structures",
		DifficultyLevel: "BEGINNER",
	})

	require.NoError(t, err)
	assert.Equal(t, "data-structures", result.ConceptType)
	assert.Equal(t, "beginner", result.DifficultyLevel)
}

type recordingEnricher struct {
	called bool
	fail   bool
}

func (e *recordingEnricher) Enrich(_ context.Context, record *knowledge.ExplanationRecord, _ shared.ConceptType, _ shared.DifficultyLevel) error {
	e.called = true
	if e.fail {
		return errors.New("provider down")
	}
	record.Explanation += "\n\nAdditional Context:\nenriched"
	return nil
}

func TestHandle_EnrichmentAppliedWhenAvailable(t *testing.T) {
	enricher := &recordingEnricher{}
	sessions := history.NewManager(nil)
	h := NewAskQuestionHandler(
		knowledge.NewResolver(knowledge.DefaultCatalog()),
		sessions,
		&capturingPublisher{},
		enricher,
		logger.New(io.Discard, logger.LevelError),
	)

	result, err := h.Handle(context.Background(), AskQuestionCommand{
		SessionID:   "sess-1",
		Question:    "what is slope?",
		ConceptType: "algebra",
	})

	require.NoError(t, err)
	assert.True(t, enricher.called)
	assert.Contains(t, result.Explanation, "Additional Context")
}

func TestHandle_EnrichmentFailureIsBestEffort(t *testing.T) {
	enricher := &recordingEnricher{fail: true}
	sessions := history.NewManager(nil)
	h := NewAskQuestionHandler(
		knowledge.NewResolver(knowledge.DefaultCatalog()),
		sessions,
		&capturingPublisher{},
		enricher,
		logger.New(io.Discard, logger.LevelError),
	)

	result, err := h.Handle(context.Background(), AskQuestionCommand{
		SessionID:   "sess-1",
		Question:    "what is slope?",
		ConceptType: "algebra",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Explanation)
	assert.NotContains(t, result.Explanation, "Additional Context")
}
