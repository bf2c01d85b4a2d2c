package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/progress"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

// ProgressRepository implements progress.Repository for PostgreSQL.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// Find returns a student's progress, or shared.ErrProgressNotFound.
func (r *ProgressRepository) Find(ctx context.Context, studentID shared.StudentID) (*progress.StudentProgress, error) {
	query := `
		SELECT student_id, questions_asked, concepts_practiced, score,
		       achievements, last_interaction
		FROM student_progress
		WHERE student_id = $1
	`

	var (
		p            progress.StudentProgress
		id           string
		conceptsJSON []byte
		achievedJSON []byte
	)
	err := r.conn.QueryRow(ctx, query, studentID.String()).Scan(
		&id, &p.QuestionsAsked, &conceptsJSON, &p.Score, &achievedJSON, &p.LastInteraction,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("postgres: find progress: %w", err)
	}

	p.StudentID = shared.StudentID(id)
	if err := json.Unmarshal(conceptsJSON, &p.ConceptsPracticed); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal concepts: %w", err)
	}
	if err := json.Unmarshal(achievedJSON, &p.Achievements); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal achievements: %w", err)
	}
	return &p, nil
}

// Save upserts a student's progress.
func (r *ProgressRepository) Save(ctx context.Context, p *progress.StudentProgress) error {
	query := `
		INSERT INTO student_progress (
			student_id, questions_asked, concepts_practiced, score,
			achievements, last_interaction, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (student_id) DO UPDATE SET
			questions_asked = EXCLUDED.questions_asked,
			concepts_practiced = EXCLUDED.concepts_practiced,
			score = EXCLUDED.score,
			achievements = EXCLUDED.achievements,
			last_interaction = EXCLUDED.last_interaction,
			updated_at = NOW()
	`

	conceptsJSON, err := json.Marshal(p.ConceptsPracticed)
	if err != nil {
		return fmt.Errorf("postgres: marshal concepts: %w", err)
	}
	achievedJSON, err := json.Marshal(p.Achievements)
	if err != nil {
		return fmt.Errorf("postgres: marshal achievements: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		p.StudentID.String(), p.QuestionsAsked, conceptsJSON, p.Score,
		achievedJSON, p.LastInteraction,
	)
	if err != nil {
		return fmt.Errorf("postgres: save progress: %w", err)
	}
	return nil
}

// Count returns the number of tracked students.
func (r *ProgressRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM student_progress`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: count progress: %w", err)
	}
	return count, nil
}
