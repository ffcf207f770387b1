package fstx

// Operation is a single reversible filesystem action.
//
// Execute and Rollback are each called at most once per instance, Execute
// always before Rollback. An operation that needs a safety net for an
// in-place mutation snapshots the affected path through its BackupStore
// before mutating, so Rollback can restore the prior state byte-for-byte.
// Operations are not reusable: a second Execute requires a fresh instance.
//
// Close discards the operation's backup artifact, if any. It must be called
// once the outcome is final and no further rollback will be requested,
// typically via defer, or through the owning Transaction's Close.
type Operation interface {
	Execute() error
	Rollback() error
	Close() error

	// Kind names the action, e.g. "create-file" or "move-directory".
	Kind() string

	// Path returns the primary target of the action (the source path for
	// copy and move operations).
	Path() string
}

// Operation kind names, shared by the journal and the plan file format.
const (
	KindCreateFile      = "create-file"
	KindCreateDirectory = "create-directory"
	KindWriteFile       = "write"
	KindAppendFile      = "append"
	KindCopyFile        = "copy-file"
	KindCopyDirectory   = "copy-directory"
	KindMoveFile        = "move-file"
	KindMoveDirectory   = "move-directory"
	KindDeleteFile      = "delete-file"
	KindDeleteDirectory = "delete-directory"
)
