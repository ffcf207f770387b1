package fstx

// moveOperation relocates a file or directory with a rename. A rename is
// its own inverse, so the operation needs no backup: Rollback renames the
// destination back to the source. Renames are atomic on the same volume;
// cross-volume moves fail according to host platform semantics.
//
// The implementation is type-independent, like the rename primitive itself.
// MoveFile and MoveDirectory exist as distinct constructors so callers and
// plan files can state intent, and so journals record the actual kind.
type moveOperation struct {
	fsys Filesystem
	src  string
	dst  string
	kind string
}

var _ Operation = (*moveOperation)(nil)

// NewMoveFile creates an operation that moves a file from src to dst.
func NewMoveFile(fsys Filesystem, src, dst string) Operation {
	return &moveOperation{fsys: fsys, src: src, dst: dst, kind: KindMoveFile}
}

// NewMoveDirectory creates an operation that moves a directory from src to dst.
func NewMoveDirectory(fsys Filesystem, src, dst string) Operation {
	return &moveOperation{fsys: fsys, src: src, dst: dst, kind: KindMoveDirectory}
}

// Execute renames src to dst.
func (op *moveOperation) Execute() error {
	return op.fsys.Rename(op.src, op.dst)
}

// Rollback renames dst back to src.
func (op *moveOperation) Rollback() error {
	return op.fsys.Rename(op.dst, op.src)
}

// Close is a no-op: moves hold no backup artifact.
func (op *moveOperation) Close() error { return nil }

func (op *moveOperation) Kind() string { return op.kind }
func (op *moveOperation) Path() string { return op.src }

// Dest returns the destination path of the move.
func (op *moveOperation) Dest() string { return op.dst }
