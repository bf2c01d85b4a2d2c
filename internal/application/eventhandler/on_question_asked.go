// Package eventhandler contains subscribers that react to domain events.
// These run after an ask has already been answered: nothing here can fail or
// delay an explanation response.
package eventhandler

import (
	"context"
	"fmt"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/progress"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

// OnQuestionAsked updates the asking student's progress and achievements.
// Anonymous asks (no student ID) are ignored.
type OnQuestionAsked struct {
	repo   progress.Repository
	events shared.EventPublisher
	log    *logger.Logger
}

// NewOnQuestionAsked creates the handler.
func NewOnQuestionAsked(repo progress.Repository, events shared.EventPublisher, log *logger.Logger) *OnQuestionAsked {
	if log == nil {
		log = logger.Default()
	}
	return &OnQuestionAsked{repo: repo, events: events, log: log}
}

// Handle implements shared.EventHandler.
func (h *OnQuestionAsked) Handle(ctx context.Context, event shared.Event) error {
	asked, ok := event.(shared.QuestionAskedEvent)
	if !ok {
		return fmt.Errorf("on_question_asked: unexpected event type %s", event.EventType())
	}
	if asked.StudentID.IsEmpty() {
		return nil
	}

	p, err := h.repo.Find(ctx, asked.StudentID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return fmt.Errorf("on_question_asked: load progress: %w", err)
		}
		p = progress.NewStudentProgress(asked.StudentID)
	}

	p.RecordQuestion(asked.Concept, asked.OccurredAt())
	unlocked := progress.CheckAchievements(p)

	if err := h.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("on_question_asked: save progress: %w", err)
	}

	h.log.Info("student progress updated",
		logger.String("student_id", asked.StudentID.String()),
		logger.Int("questions_asked", p.QuestionsAsked),
		logger.Float64("score", p.Score))

	if h.events != nil {
		recorded := shared.NewProgressRecordedEvent(
			asked.StudentID, p.QuestionsAsked, p.ConceptsPracticed, asked.Difficulty, p.Score)
		if err := h.events.Publish(ctx, recorded); err != nil {
			h.log.Warn("progress event publish failed", logger.Err(err))
		}
		for _, a := range unlocked {
			h.log.Info("achievement unlocked",
				logger.String("student_id", asked.StudentID.String()),
				logger.String("achievement", a.ID))
			if err := h.events.Publish(ctx, shared.NewAchievementUnlockedEvent(asked.StudentID, a.ID, a.Points)); err != nil {
				h.log.Warn("achievement event publish failed", logger.Err(err))
			}
		}
	}

	return nil
}
