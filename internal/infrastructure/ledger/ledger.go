// Package ledger implements the append-only progress audit trail. Records
// are hash-chained: each entry's hash covers the canonical record plus the
// previous entry's hash, so any tampering breaks verification from that point
// on. Receipts carry synthetic transaction IDs; there is no real chain behind
// them, the ledger is an audit sink, not a system of record.
package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// ProgressRecord is one progress snapshot to be chained.
type ProgressRecord struct {
	StudentID      string    `json:"student_id"`
	QuestionsAsked int       `json:"questions_asked"`
	Concepts       []string  `json:"concepts"`
	Difficulty     string    `json:"difficulty"`
	Score          float64   `json:"score"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// Receipt confirms an appended record.
type Receipt struct {
	// TxID is a synthetic transaction identifier.
	TxID string `json:"tx_id"`

	// Sequence is the record's position in the chain, starting at 1.
	Sequence uint64 `json:"sequence"`

	// RecordHash is the hex SHA3-256 over the previous hash and the
	// canonical record JSON.
	RecordHash string `json:"record_hash"`

	// PrevHash is the hash of the preceding entry (the genesis hash for the
	// first record).
	PrevHash string `json:"prev_hash"`

	// StudentID echoes the record's student.
	StudentID string `json:"student_id"`

	// AppendedAt is when the ledger accepted the record.
	AppendedAt time.Time `json:"appended_at"`
}

// genesisHash anchors the chain before the first record.
var genesisHash = hex.EncodeToString(make([]byte, 32))

// entry pairs a record with its receipt for verification.
type entry struct {
	record  ProgressRecord
	receipt Receipt
}

// Ledger is the in-process hash chain. Safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	entries []entry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// hashRecord computes the chained hash for a record.
func hashRecord(prevHash string, record ProgressRecord) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("ledger: marshal record: %w", err)
	}
	h := sha3.New256()
	h.Write([]byte(prevHash))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Append chains a record and returns its receipt.
func (l *Ledger) Append(_ context.Context, record ProgressRecord) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := genesisHash
	if n := len(l.entries); n > 0 {
		prev = l.entries[n-1].receipt.RecordHash
	}

	recordHash, err := hashRecord(prev, record)
	if err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{
		TxID:       "0x" + uuid.New().String(),
		Sequence:   uint64(len(l.entries) + 1),
		RecordHash: recordHash,
		PrevHash:   prev,
		StudentID:  record.StudentID,
		AppendedAt: time.Now(),
	}
	l.entries = append(l.entries, entry{record: record, receipt: receipt})
	return receipt, nil
}

// Verify walks the whole chain and reports whether every link holds.
func (l *Ledger) Verify() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := genesisHash
	for _, e := range l.entries {
		if e.receipt.PrevHash != prev {
			return false
		}
		expected, err := hashRecord(prev, e.record)
		if err != nil || expected != e.receipt.RecordHash {
			return false
		}
		prev = e.receipt.RecordHash
	}
	return true
}

// Receipts returns all receipts in append order.
func (l *Ledger) Receipts() []Receipt {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Receipt, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.receipt
	}
	return out
}

// ReceiptsForStudent returns a student's receipts in append order.
func (l *Ledger) ReceiptsForStudent(studentID string) []Receipt {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Receipt
	for _, e := range l.entries {
		if e.receipt.StudentID == studentID {
			out = append(out, e.receipt)
		}
	}
	return out
}

// Len returns the number of chained records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
