package fstx

import "time"

// Transaction outcome statuses recorded in the journal.
const (
	StatusCommitted      = "committed"
	StatusFailed         = "failed"
	StatusRolledBack     = "rolled_back"
	StatusRollbackFailed = "rollback_failed"
)

// TransactionRecord describes one applied transaction for the history view.
type TransactionRecord struct {
	ID         string
	Plan       string // plan file path, or a short description for ad-hoc runs
	Status     string
	Steps      int
	Executed   int
	FailedStep int // index of the failing step, -1 when none
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// StepRecord describes one operation of a recorded transaction.
type StepRecord struct {
	TransactionID string
	Seq           int
	Kind          string
	Source        string
	Dest          string
}

// Journal provides an interface for recording applied transactions and
// their steps. The journal is an audit log for the history command, not a
// write-ahead log: transactions are recorded after their outcome is known.
type Journal interface {
	// RecordTransaction persists a transaction outcome with its steps.
	RecordTransaction(rec *TransactionRecord, steps []StepRecord) error

	// ListTransactions returns the most recent transactions, newest first.
	ListTransactions(limit int) ([]*TransactionRecord, error)

	// ListSteps returns the steps of a transaction in execution order.
	ListSteps(transactionID string) ([]*StepRecord, error)

	// Close closes the journal.
	Close() error
}
