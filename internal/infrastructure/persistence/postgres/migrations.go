package postgres

import (
	"context"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: STUDENT PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create student_progress table
-- Version: 001

CREATE TABLE IF NOT EXISTS student_progress (
    student_id VARCHAR(64) PRIMARY KEY,
    questions_asked INTEGER NOT NULL DEFAULT 0,
    concepts_practiced JSONB NOT NULL DEFAULT '[]'::jsonb,
    score DECIMAL(5,1) NOT NULL DEFAULT 0,
    achievements JSONB NOT NULL DEFAULT '[]'::jsonb,
    last_interaction TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_questions CHECK (questions_asked >= 0),
    CONSTRAINT valid_score CHECK (score >= 0 AND score <= 100)
);

CREATE INDEX IF NOT EXISTS idx_student_progress_last_interaction
    ON student_progress(last_interaction DESC);
`

// migrations lists all migrations in order.
var migrations = []string{
	migration001Up,
}

// Migrate applies all migrations. Statements are idempotent, so re-running
// against an up-to-date database is a no-op.
func Migrate(ctx context.Context, conn *Connection) error {
	for i, stmt := range migrations {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migration %03d: %v", ErrMigrationFailed, i+1, err)
		}
	}
	return nil
}
