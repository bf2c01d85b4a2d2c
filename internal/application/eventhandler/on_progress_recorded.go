package eventhandler

import (
	"context"
	"fmt"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/internal/infrastructure/ledger"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

// AuditSink records progress snapshots in an append-only audit trail.
// Implemented by the hash-chained ledger.
type AuditSink interface {
	Append(ctx context.Context, record ledger.ProgressRecord) (ledger.Receipt, error)
}

// OnProgressRecorded appends each progress update to the audit ledger.
type OnProgressRecorded struct {
	sink AuditSink
	log  *logger.Logger
}

// NewOnProgressRecorded creates the handler.
func NewOnProgressRecorded(sink AuditSink, log *logger.Logger) *OnProgressRecorded {
	if log == nil {
		log = logger.Default()
	}
	return &OnProgressRecorded{sink: sink, log: log}
}

// Handle implements shared.EventHandler.
func (h *OnProgressRecorded) Handle(ctx context.Context, event shared.Event) error {
	recorded, ok := event.(shared.ProgressRecordedEvent)
	if !ok {
		return fmt.Errorf("on_progress_recorded: unexpected event type %s", event.EventType())
	}

	receipt, err := h.sink.Append(ctx, ledger.ProgressRecord{
		StudentID:      recorded.StudentID.String(),
		QuestionsAsked: recorded.QuestionsAsked,
		Concepts:       recorded.Concepts,
		Difficulty:     recorded.Difficulty.String(),
		Score:          recorded.Score,
		RecordedAt:     recorded.OccurredAt(),
	})
	if err != nil {
		return fmt.Errorf("on_progress_recorded: ledger append: %w", err)
	}

	h.log.Info("progress recorded in ledger",
		logger.String("student_id", recorded.StudentID.String()),
		logger.String("tx_id", receipt.TxID),
		logger.Int("sequence", int(receipt.Sequence)))
	return nil
}
