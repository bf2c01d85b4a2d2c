// Package progress tracks per-student learning progress and achievements.
// Progress is updated after every ask that carries a student ID; it feeds the
// achievement rules and the audit ledger, and none of it can fail an ask.
package progress

import (
	"context"
	"sort"
	"time"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

// MaxScore caps the progress score.
const MaxScore = 100.0

// scorePerQuestion is the score awarded per question asked.
const scorePerQuestion = 10.0

// StudentProgress is the aggregate of a student's learning activity.
type StudentProgress struct {
	// StudentID identifies the student.
	StudentID shared.StudentID `json:"student_id"`

	// QuestionsAsked is the total number of questions asked.
	QuestionsAsked int `json:"questions_asked"`

	// ConceptsPracticed is the set of distinct concepts the student has
	// asked about, stored sorted for stable output.
	ConceptsPracticed []string `json:"concepts_practiced"`

	// Score grows with activity, capped at MaxScore.
	Score float64 `json:"score"`

	// Achievements holds unlocked achievement IDs, in unlock order.
	Achievements []string `json:"achievements"`

	// LastInteraction is when the student last asked a question.
	LastInteraction time.Time `json:"last_interaction"`
}

// NewStudentProgress creates empty progress for a student.
func NewStudentProgress(studentID shared.StudentID) *StudentProgress {
	return &StudentProgress{
		StudentID:         studentID,
		ConceptsPracticed: []string{},
		Achievements:      []string{},
	}
}

// RecordQuestion updates the aggregate for one asked question.
func (p *StudentProgress) RecordQuestion(concept shared.ConceptType, at time.Time) {
	p.QuestionsAsked++
	p.LastInteraction = at

	name := concept.String()
	if name != "" && !p.HasPracticed(name) {
		p.ConceptsPracticed = append(p.ConceptsPracticed, name)
		sort.Strings(p.ConceptsPracticed)
	}

	p.Score = float64(p.QuestionsAsked) * scorePerQuestion
	if p.Score > MaxScore {
		p.Score = MaxScore
	}
}

// HasPracticed reports whether the student has asked about a concept.
func (p *StudentProgress) HasPracticed(concept string) bool {
	for _, c := range p.ConceptsPracticed {
		if c == concept {
			return true
		}
	}
	return false
}

// HasAchievement reports whether an achievement is already unlocked.
func (p *StudentProgress) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Repository persists student progress.
type Repository interface {
	// Find returns a student's progress, or shared.ErrProgressNotFound.
	Find(ctx context.Context, studentID shared.StudentID) (*StudentProgress, error)

	// Save upserts a student's progress.
	Save(ctx context.Context, p *StudentProgress) error

	// Count returns the number of tracked students.
	Count(ctx context.Context) (int, error)
}
