package fstx

import "fmt"

// CopyFile copies a file's bytes to a destination path. Rollback removes
// the destination copy; the source is never touched, so no backup is taken.
// For a clean rollback the destination must not pre-exist.
type CopyFile struct {
	fsys Filesystem
	src  string
	dst  string
}

var _ Operation = (*CopyFile)(nil)

// NewCopyFile creates a CopyFile operation.
func NewCopyFile(fsys Filesystem, src, dst string) *CopyFile {
	return &CopyFile{fsys: fsys, src: src, dst: dst}
}

// Execute copies the source file's bytes to the destination.
func (op *CopyFile) Execute() error {
	data, err := op.fsys.ReadFile(op.src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", op.src, err)
	}
	if err := op.fsys.WriteFile(op.dst, data); err != nil {
		return fmt.Errorf("writing %s: %w", op.dst, err)
	}
	return nil
}

// Rollback removes the destination copy.
func (op *CopyFile) Rollback() error {
	return op.fsys.Remove(op.dst)
}

// Close is a no-op: CopyFile holds no backup artifact.
func (op *CopyFile) Close() error { return nil }

func (op *CopyFile) Kind() string { return KindCopyFile }
func (op *CopyFile) Path() string { return op.src }

// Dest returns the destination path of the copy.
func (op *CopyFile) Dest() string { return op.dst }

// CopyDirectory recursively copies a subtree to a destination path.
// Rollback removes the destination subtree; the source is never touched.
type CopyDirectory struct {
	fsys Filesystem
	src  string
	dst  string
}

var _ Operation = (*CopyDirectory)(nil)

// NewCopyDirectory creates a CopyDirectory operation.
func NewCopyDirectory(fsys Filesystem, src, dst string) *CopyDirectory {
	return &CopyDirectory{fsys: fsys, src: src, dst: dst}
}

// Execute copies the full subtree rooted at the source to the destination.
func (op *CopyDirectory) Execute() error {
	return CopyTree(op.fsys, op.src, op.dst)
}

// Rollback removes the destination subtree entirely.
func (op *CopyDirectory) Rollback() error {
	return op.fsys.RemoveAll(op.dst)
}

// Close is a no-op: CopyDirectory holds no backup artifact.
func (op *CopyDirectory) Close() error { return nil }

func (op *CopyDirectory) Kind() string { return KindCopyDirectory }
func (op *CopyDirectory) Path() string { return op.src }

// Dest returns the destination path of the copy.
func (op *CopyDirectory) Dest() string { return op.dst }
