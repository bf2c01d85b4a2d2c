package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(studentID string, questions int) ProgressRecord {
	return ProgressRecord{
		StudentID:      studentID,
		QuestionsAsked: questions,
		Concepts:       []string{"algebra", "calculus"},
		Difficulty:     "intermediate",
		Score:          float64(questions) * 10,
		RecordedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAppend_ChainsRecords(t *testing.T) {
	l := New()
	ctx := context.Background()

	first, err := l.Append(ctx, sampleRecord("s1", 1))
	require.NoError(t, err)
	second, err := l.Append(ctx, sampleRecord("s1", 2))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.Sequence)
	assert.Equal(t, uint64(2), second.Sequence)
	assert.Equal(t, genesisHash, first.PrevHash)
	assert.Equal(t, first.RecordHash, second.PrevHash)
	assert.True(t, strings.HasPrefix(first.TxID, "0x"))
	assert.NotEqual(t, first.TxID, second.TxID)
	assert.Len(t, first.RecordHash, 64)
}

func TestAppend_IdenticalRecordsGetDistinctHashes(t *testing.T) {
	l := New()
	ctx := context.Background()

	first, err := l.Append(ctx, sampleRecord("s1", 1))
	require.NoError(t, err)
	second, err := l.Append(ctx, sampleRecord("s1", 1))
	require.NoError(t, err)

	// Same payload, different position in the chain.
	assert.NotEqual(t, first.RecordHash, second.RecordHash)
}

func TestVerify_AcceptsIntactChain(t *testing.T) {
	l := New()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := l.Append(ctx, sampleRecord("s1", i))
		require.NoError(t, err)
	}

	assert.True(t, l.Verify())
	assert.Equal(t, 5, l.Len())
}

func TestVerify_DetectsTampering(t *testing.T) {
	l := New()
	ctx := context.Background()

	_, err := l.Append(ctx, sampleRecord("s1", 1))
	require.NoError(t, err)
	_, err = l.Append(ctx, sampleRecord("s1", 2))
	require.NoError(t, err)

	l.entries[0].record.Score = 999
	assert.False(t, l.Verify())
}

func TestReceiptsForStudent(t *testing.T) {
	l := New()
	ctx := context.Background()

	_, err := l.Append(ctx, sampleRecord("s1", 1))
	require.NoError(t, err)
	_, err = l.Append(ctx, sampleRecord("s2", 1))
	require.NoError(t, err)
	_, err = l.Append(ctx, sampleRecord("s1", 2))
	require.NoError(t, err)

	receipts := l.ReceiptsForStudent("s1")
	require.Len(t, receipts, 2)
	assert.Equal(t, uint64(1), receipts[0].Sequence)
	assert.Equal(t, uint64(3), receipts[1].Sequence)
	assert.Empty(t, l.ReceiptsForStudent("unknown"))
}

func TestVerify_EmptyLedger(t *testing.T) {
	assert.True(t, New().Verify())
}
