package query

import (
	"context"
	"time"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/progress"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT PROGRESS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressQuery identifies the student to read.
type GetProgressQuery struct {
	StudentID string
}

// Validate validates the query.
func (q GetProgressQuery) Validate() error {
	if _, err := shared.NewStudentID(q.StudentID); err != nil {
		return err
	}
	if q.StudentID == "" {
		return shared.ErrInvalidStudentID
	}
	return nil
}

// GetProgressResult is the student's progress and achievements view.
type GetProgressResult struct {
	StudentID         string                 `json:"student_id"`
	QuestionsAsked    int                    `json:"questions_asked"`
	ConceptsPracticed []string               `json:"concepts_practiced"`
	Score             float64                `json:"score"`
	Achievements      []progress.Achievement `json:"achievements"`
	TotalPoints       int                    `json:"total_points"`
	LastInteraction   time.Time              `json:"last_interaction"`
}

// GetProgressHandler handles the GetProgressQuery.
type GetProgressHandler struct {
	repo progress.Repository
}

// NewGetProgressHandler creates the handler.
func NewGetProgressHandler(repo progress.Repository) *GetProgressHandler {
	return &GetProgressHandler{repo: repo}
}

// Handle executes the query. An untracked student yields
// shared.ErrProgressNotFound.
func (h *GetProgressHandler) Handle(ctx context.Context, q GetProgressQuery) (GetProgressResult, error) {
	if err := q.Validate(); err != nil {
		return GetProgressResult{}, err
	}

	p, err := h.repo.Find(ctx, shared.StudentID(q.StudentID))
	if err != nil {
		return GetProgressResult{}, err
	}

	achievements := make([]progress.Achievement, 0, len(p.Achievements))
	for _, id := range p.Achievements {
		if a, ok := progress.AchievementByID(id); ok {
			achievements = append(achievements, a)
		}
	}

	return GetProgressResult{
		StudentID:         p.StudentID.String(),
		QuestionsAsked:    p.QuestionsAsked,
		ConceptsPracticed: p.ConceptsPracticed,
		Score:             p.Score,
		Achievements:      achievements,
		TotalPoints:       progress.TotalPoints(p),
		LastInteraction:   p.LastInteraction,
	}, nil
}
