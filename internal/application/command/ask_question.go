// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"time"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/history"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/knowledge"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASK QUESTION COMMAND
// The single tutoring operation: resolve instructional content for a
// (concept, difficulty) pair, remember the question in the session history,
// and hand the interaction to the event bus for progress/audit collaborators.
// ══════════════════════════════════════════════════════════════════════════════

// AskQuestionCommand contains one student ask.
type AskQuestionCommand struct {
	// SessionID identifies the client session owning the history log.
	SessionID string

	// Question is the student's question text. The engine does not parse it
	// and tolerates an empty string; the HTTP boundary rejects empty input
	// before it gets here.
	Question string

	// ConceptType is the requested concept as sent by the caller. Unknown
	// values are served via fallback, never rejected.
	ConceptType string

	// DifficultyLevel is the requested difficulty. Unrecognized strings are
	// normalized to intermediate.
	DifficultyLevel string

	// StudentID optionally identifies the student for progress tracking.
	StudentID string
}

// Validate validates the command. Only the session is structurally required;
// everything else is normalized rather than rejected.
func (c AskQuestionCommand) Validate() error {
	if c.SessionID == "" {
		return errors.New("ask_question: session_id is required")
	}
	return nil
}

// AskQuestionResult is the explanation returned to the caller.
type AskQuestionResult struct {
	// Explanation is the main explanation text.
	Explanation string `json:"explanation"`

	// KeyPoints are the key takeaways.
	KeyPoints []string `json:"key_points"`

	// Examples are worked examples.
	Examples []string `json:"examples"`

	// PracticeProblems are suggested exercises.
	PracticeProblems []string `json:"practice_problems"`

	// ConceptType is the normalized concept the content was resolved for.
	ConceptType string `json:"concept_type"`

	// DifficultyLevel is the difficulty actually used for resolution
	// (unknown request strings report "intermediate").
	DifficultyLevel string `json:"difficulty_level"`

	// StudentID echoes the request's student ID, if any.
	StudentID string `json:"student_id,omitempty"`

	// AskedAt is when the interaction was processed.
	AskedAt time.Time `json:"asked_at"`
}

// ResourceEnricher augments a resolved record with external learning
// resources. Enrichment is best-effort: an error leaves the record unchanged.
type ResourceEnricher interface {
	Enrich(ctx context.Context, record *knowledge.ExplanationRecord, concept shared.ConceptType, difficulty shared.DifficultyLevel) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AskQuestionHandler handles the AskQuestionCommand. By construction it has
// no recoverable-error path for enum-shaped input: resolution always yields a
// record and the in-memory history record always succeeds.
type AskQuestionHandler struct {
	resolver *knowledge.Resolver
	sessions *history.Manager
	events   shared.EventPublisher
	enricher ResourceEnricher // optional
	log      *logger.Logger
}

// NewAskQuestionHandler creates the handler. enricher may be nil to disable
// external resource enrichment.
func NewAskQuestionHandler(
	resolver *knowledge.Resolver,
	sessions *history.Manager,
	events shared.EventPublisher,
	enricher ResourceEnricher,
	log *logger.Logger,
) *AskQuestionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AskQuestionHandler{
		resolver: resolver,
		sessions: sessions,
		events:   events,
		enricher: enricher,
		log:      log,
	}
}

// Handle processes one ask.
func (h *AskQuestionHandler) Handle(ctx context.Context, cmd AskQuestionCommand) (AskQuestionResult, error) {
	if err := cmd.Validate(); err != nil {
		return AskQuestionResult{}, err
	}

	concept := shared.NewConceptType(cmd.ConceptType)
	difficulty := shared.NormalizeDifficulty(cmd.DifficultyLevel)
	sessionID := shared.SessionID(cmd.SessionID)
	studentID := shared.StudentID(cmd.StudentID)

	record := h.resolver.Resolve(concept, difficulty)

	if h.enricher != nil {
		if err := h.enricher.Enrich(ctx, &record, concept, difficulty); err != nil {
			// Enrichment is a best-effort collaborator; the canned record
			// stands on its own.
			h.log.Warn("resource enrichment failed",
				logger.String("concept", concept.String()),
				logger.Err(err))
		}
	}

	// Exactly one history mutation per ask. The in-memory record cannot
	// fail; a store error is reported and the response proceeds.
	if err := h.sessions.Record(ctx, cmd.SessionID, cmd.Question); err != nil {
		h.log.Warn("session history persistence failed",
			logger.String("session_id", cmd.SessionID),
			logger.Err(err))
		h.publish(ctx, shared.NewHistoryStoreFailedEvent(sessionID, err))
	}

	h.publish(ctx, shared.NewQuestionAskedEvent(sessionID, studentID, concept, difficulty, cmd.Question))

	return AskQuestionResult{
		Explanation:      record.Explanation,
		KeyPoints:        record.KeyPoints,
		Examples:         record.Examples,
		PracticeProblems: record.PracticeProblems,
		ConceptType:      concept.String(),
		DifficultyLevel:  difficulty.String(),
		StudentID:        studentID.String(),
		AskedAt:          time.Now(),
	}, nil
}

func (h *AskQuestionHandler) publish(ctx context.Context, event shared.Event) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ctx, event); err != nil {
		h.log.Warn("event publish failed",
			logger.String("event_type", string(event.EventType())),
			logger.Err(err))
	}
}
