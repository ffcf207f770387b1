package fstx

import "fmt"

// Transaction is an ordered batch of operations executed as an
// all-or-nothing unit. Operations run in append order; on the first
// failure, Rollback undoes the operations that ran, in reverse order.
//
// A transaction is single-threaded and assumes exclusive ownership of the
// paths it touches for the duration of Execute and Rollback. It is not
// reusable: a second Execute requires a fresh Transaction.
type Transaction struct {
	fsys    Filesystem
	backups BackupStore
	tempDir string
	logger  Logger

	ops      []Operation
	executed int
}

// NewTransaction creates an empty transaction. tempDir is where operations
// that need a backup will place their artifacts; distinct transactions may
// share it, since artifacts are named with generated unique IDs.
func NewTransaction(fsys Filesystem, backups BackupStore, tempDir string, logger Logger) *Transaction {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Transaction{
		fsys:    fsys,
		backups: backups,
		tempDir: tempDir,
		logger:  logger,
	}
}

// Add appends an operation and returns the transaction for chaining.
func (t *Transaction) Add(op Operation) *Transaction {
	t.ops = append(t.ops, op)
	return t
}

// CreateFile appends an operation that creates a new empty file.
func (t *Transaction) CreateFile(path string) *Transaction {
	return t.Add(NewCreateFile(t.fsys, path))
}

// CreateDirectory appends an operation that creates a directory and any
// missing parents.
func (t *Transaction) CreateDirectory(path string) *Transaction {
	return t.Add(NewCreateDirectory(t.fsys, path))
}

// WriteFile appends an operation that overwrites an existing file with
// payload.
func (t *Transaction) WriteFile(path string, payload []byte) *Transaction {
	return t.Add(NewWriteFile(t.fsys, t.backups, path, t.tempDir, payload))
}

// AppendFile appends an operation that appends payload to an existing file.
func (t *Transaction) AppendFile(path string, payload []byte) *Transaction {
	return t.Add(NewAppendFile(t.fsys, t.backups, path, t.tempDir, payload))
}

// CopyFile appends an operation that copies a file to dst.
func (t *Transaction) CopyFile(src, dst string) *Transaction {
	return t.Add(NewCopyFile(t.fsys, src, dst))
}

// CopyDirectory appends an operation that copies a subtree to dst.
func (t *Transaction) CopyDirectory(src, dst string) *Transaction {
	return t.Add(NewCopyDirectory(t.fsys, src, dst))
}

// MoveFile appends an operation that renames a file to dst.
func (t *Transaction) MoveFile(src, dst string) *Transaction {
	return t.Add(NewMoveFile(t.fsys, src, dst))
}

// MoveDirectory appends an operation that renames a directory to dst.
func (t *Transaction) MoveDirectory(src, dst string) *Transaction {
	return t.Add(NewMoveDirectory(t.fsys, src, dst))
}

// DeleteFile appends an operation that removes a file after backing it up.
func (t *Transaction) DeleteFile(path string) *Transaction {
	return t.Add(NewDeleteFile(t.fsys, t.backups, path, t.tempDir))
}

// DeleteDirectory appends an operation that removes a subtree after
// backing it up.
func (t *Transaction) DeleteDirectory(path string) *Transaction {
	return t.Add(NewDeleteDirectory(t.fsys, t.backups, path, t.tempDir))
}

// Len returns the number of appended operations.
func (t *Transaction) Len() int { return len(t.ops) }

// Executed returns how many operations have been attempted in the current
// run. It bounds the range Rollback will touch.
func (t *Transaction) Executed() int { return t.executed }

// Operations returns the appended operations in execution order.
func (t *Transaction) Operations() []Operation { return t.ops }

// Execute runs the operations in append order, stopping at the first
// failure and returning its error. The executed counter is incremented
// before each attempt, so a failed operation still falls inside the range
// Rollback undoes; its own rollback may need to undo partial effects.
// Execute does not roll back on failure; that is the caller's call.
func (t *Transaction) Execute() error {
	for _, op := range t.ops {
		t.executed++
		t.logger.Debug("executing operation", "step", t.executed-1, "kind", op.Kind(), "path", op.Path())
		if err := op.Execute(); err != nil {
			return fmt.Errorf("step %d (%s %s): %w", t.executed-1, op.Kind(), op.Path(), err)
		}
	}
	return nil
}

// Rollback undoes the attempted operations in reverse order. It stops at
// the first rollback failure and returns its error; lower-index operations
// are then left un-rolled-back, so the error names the failing step to
// allow manual recovery. Operations never reached by Execute are never
// touched.
func (t *Transaction) Rollback() error {
	for i := t.executed - 1; i >= 0; i-- {
		op := t.ops[i]
		t.logger.Debug("rolling back operation", "step", i, "kind", op.Kind(), "path", op.Path())
		if err := op.Rollback(); err != nil {
			return fmt.Errorf("rolling back step %d (%s %s): %w", i, op.Kind(), op.Path(), err)
		}
	}
	return nil
}

// Close discards the backup artifacts of every operation. Failures are
// logged rather than propagated: Close runs during teardown, where a
// leaked backup file is the lesser harm. Always call Close once the
// transaction's outcome is final, typically via defer.
func (t *Transaction) Close() error {
	for i, op := range t.ops {
		if err := op.Close(); err != nil {
			t.logger.Warn("discarding backup failed", "step", i, "kind", op.Kind(), "path", op.Path(), "error", err)
		}
	}
	return nil
}
