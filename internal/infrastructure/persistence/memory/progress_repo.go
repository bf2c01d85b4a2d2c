package memory

import (
	"context"
	"sync"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/progress"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

// ProgressRepository is an in-memory progress.Repository.
type ProgressRepository struct {
	mu       sync.RWMutex
	students map[shared.StudentID]progress.StudentProgress
}

// NewProgressRepository creates an empty repository.
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{students: make(map[shared.StudentID]progress.StudentProgress)}
}

// Find implements progress.Repository.
func (r *ProgressRepository) Find(_ context.Context, studentID shared.StudentID) (*progress.StudentProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.students[studentID]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	out := p
	out.ConceptsPracticed = append([]string(nil), p.ConceptsPracticed...)
	out.Achievements = append([]string(nil), p.Achievements...)
	return &out, nil
}

// Save implements progress.Repository.
func (r *ProgressRepository) Save(_ context.Context, p *progress.StudentProgress) error {
	stored := *p
	stored.ConceptsPracticed = append([]string(nil), p.ConceptsPracticed...)
	stored.Achievements = append([]string(nil), p.Achievements...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.students[p.StudentID] = stored
	return nil
}

// Count implements progress.Repository.
func (r *ProgressRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.students), nil
}
