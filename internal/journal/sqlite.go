package journal

import (
	"database/sql"
	"fmt"

	"fstx-go/internal/fstx"
	"fstx-go/internal/journal/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements the fstx.Journal interface using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

var _ fstx.Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal opens (creating and migrating if needed) a SQLite
// journal. path can be a file path or ":memory:" for an in-memory journal.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tests that need a properly configured connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// An in-memory database exists per connection; the pool must not open
	// a second one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// RecordTransaction persists a transaction outcome with its steps in a
// single database transaction.
func (j *SQLiteJournal) RecordTransaction(rec *fstx.TransactionRecord, steps []fstx.StepRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning journal write: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO transactions (id, plan, status, steps, executed, failed_step, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Plan, rec.Status, rec.Steps, rec.Executed, rec.FailedStep, rec.Error,
		rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction %s: %w", rec.ID, err)
	}

	for _, step := range steps {
		_, err = tx.Exec(
			`INSERT INTO steps (transaction_id, seq, kind, source_path, dest_path)
			 VALUES (?, ?, ?, ?, ?)`,
			rec.ID, step.Seq, step.Kind, step.Source, step.Dest,
		)
		if err != nil {
			return fmt.Errorf("inserting step %d of %s: %w", step.Seq, rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing journal write: %w", err)
	}
	return nil
}

// ListTransactions returns the most recent transactions, newest first.
func (j *SQLiteJournal) ListTransactions(limit int) ([]*fstx.TransactionRecord, error) {
	rows, err := j.db.Query(
		`SELECT id, plan, status, steps, executed, failed_step, error, started_at, finished_at
		 FROM transactions
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var records []*fstx.TransactionRecord
	for rows.Next() {
		var rec fstx.TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.Plan, &rec.Status, &rec.Steps, &rec.Executed,
			&rec.FailedStep, &rec.Error, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	return records, nil
}

// ListSteps returns the steps of a transaction in execution order.
func (j *SQLiteJournal) ListSteps(transactionID string) ([]*fstx.StepRecord, error) {
	rows, err := j.db.Query(
		`SELECT transaction_id, seq, kind, source_path, dest_path
		 FROM steps
		 WHERE transaction_id = ?
		 ORDER BY seq ASC`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing steps for %s: %w", transactionID, err)
	}
	defer rows.Close()

	var records []*fstx.StepRecord
	for rows.Next() {
		var rec fstx.StepRecord
		if err := rows.Scan(&rec.TransactionID, &rec.Seq, &rec.Kind, &rec.Source, &rec.Dest); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading steps: %w", err)
	}
	return records, nil
}

// Close closes the journal connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
