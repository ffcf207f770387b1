package fstx

import (
	"fmt"
	"path/filepath"
)

// CreateFile creates a new empty file. Rollback removes it.
// No backup is taken: undoing a creation needs no prior state.
type CreateFile struct {
	fsys Filesystem
	path string
}

var _ Operation = (*CreateFile)(nil)

// NewCreateFile creates a CreateFile operation for the given path.
func NewCreateFile(fsys Filesystem, path string) *CreateFile {
	return &CreateFile{fsys: fsys, path: path}
}

// Execute creates the file. Fails if the path already exists or the parent
// directory is missing.
func (op *CreateFile) Execute() error {
	return op.fsys.CreateFile(op.path)
}

// Rollback removes the created file.
func (op *CreateFile) Rollback() error {
	return op.fsys.Remove(op.path)
}

// Close is a no-op: CreateFile holds no backup artifact.
func (op *CreateFile) Close() error { return nil }

func (op *CreateFile) Kind() string { return KindCreateFile }
func (op *CreateFile) Path() string { return op.path }

// CreateDirectory creates a directory along with any missing parents.
// Rollback removes the entire chain of directories the operation created,
// not just the leaf, so a multi-level create undoes cleanly.
type CreateDirectory struct {
	fsys Filesystem
	path string

	// created is the topmost directory Execute actually created; empty
	// until Execute runs, or if the full path already existed.
	created string
}

var _ Operation = (*CreateDirectory)(nil)

// NewCreateDirectory creates a CreateDirectory operation for the given path.
func NewCreateDirectory(fsys Filesystem, path string) *CreateDirectory {
	return &CreateDirectory{fsys: fsys, path: path}
}

// Execute creates the directory and all missing parents, remembering the
// topmost component that did not exist beforehand.
func (op *CreateDirectory) Execute() error {
	root, err := firstMissingAncestor(op.fsys, op.path)
	if err != nil {
		return err
	}
	if err := op.fsys.MkdirAll(op.path); err != nil {
		return err
	}
	op.created = root
	return nil
}

// Rollback removes the created subtree. If Execute created nothing (the
// path already existed, or Execute failed), this is a no-op.
func (op *CreateDirectory) Rollback() error {
	if op.created == "" {
		return nil
	}
	return op.fsys.RemoveAll(op.created)
}

// Close is a no-op: CreateDirectory holds no backup artifact.
func (op *CreateDirectory) Close() error { return nil }

func (op *CreateDirectory) Kind() string { return KindCreateDirectory }
func (op *CreateDirectory) Path() string { return op.path }

// firstMissingAncestor walks up from path and returns the highest component
// that does not yet exist. Returns "" if path itself already exists.
func firstMissingAncestor(fsys Filesystem, path string) (string, error) {
	ok, err := fsys.Exists(path)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}
	if ok {
		return "", nil
	}

	missing := path
	for {
		parent := filepath.Dir(missing)
		if parent == missing {
			break
		}
		ok, err := fsys.Exists(parent)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", parent, err)
		}
		if ok {
			break
		}
		missing = parent
	}
	return missing, nil
}
