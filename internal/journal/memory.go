package journal

import (
	"sort"
	"sync"

	"fstx-go/internal/fstx"
)

// MemoryJournal is an in-memory implementation of the fstx.Journal
// interface, useful for testing and for running with the journal disabled
// on disk. This implementation is safe for concurrent use.
type MemoryJournal struct {
	transactions []*fstx.TransactionRecord
	steps        map[string][]*fstx.StepRecord
	mu           sync.RWMutex
}

var _ fstx.Journal = (*MemoryJournal)(nil)

// NewMemoryJournal creates a new in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		steps: make(map[string][]*fstx.StepRecord),
	}
}

// RecordTransaction stores a transaction outcome with its steps.
func (j *MemoryJournal) RecordTransaction(rec *fstx.TransactionRecord, steps []fstx.StepRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	recCopy := *rec
	j.transactions = append(j.transactions, &recCopy)
	for i := range steps {
		stepCopy := steps[i]
		j.steps[rec.ID] = append(j.steps[rec.ID], &stepCopy)
	}
	return nil
}

// ListTransactions returns the most recent transactions, newest first.
func (j *MemoryJournal) ListTransactions(limit int) ([]*fstx.TransactionRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	records := make([]*fstx.TransactionRecord, len(j.transactions))
	copy(records, j.transactions)
	sort.SliceStable(records, func(a, b int) bool {
		return records[a].StartedAt.After(records[b].StartedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ListSteps returns the steps of a transaction in execution order.
func (j *MemoryJournal) ListSteps(transactionID string) ([]*fstx.StepRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	steps := make([]*fstx.StepRecord, len(j.steps[transactionID]))
	copy(steps, j.steps[transactionID])
	return steps, nil
}

// Close is a no-op for the in-memory journal.
func (j *MemoryJournal) Close() error { return nil }
