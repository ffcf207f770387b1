package backup

import (
	"fmt"
	"path/filepath"

	"fstx-go/internal/fstx"
)

// Store is the plain filesystem implementation of fstx.BackupStore.
// Artifacts are written under the caller-supplied temp directory, named by
// freshly generated unique IDs so operations may share a temp directory
// without colliding.
type Store struct {
	fsys  fstx.Filesystem
	idgen fstx.IDGenerator
}

var _ fstx.BackupStore = (*Store)(nil)

// NewStore creates a backup store over the given filesystem.
func NewStore(fsys fstx.Filesystem, idgen fstx.IDGenerator) *Store {
	return &Store{fsys: fsys, idgen: idgen}
}

// BackupFile copies the file's entire content into tempDir under a unique
// name, creating tempDir and any missing parents first.
func (s *Store) BackupFile(path, tempDir string) (string, error) {
	if err := s.fsys.MkdirAll(tempDir); err != nil {
		return "", fmt.Errorf("creating temp dir %s: %w", tempDir, err)
	}

	backupPath := filepath.Join(tempDir, s.idgen.New())

	data, err := s.fsys.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if err := s.fsys.WriteFile(backupPath, data); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", backupPath, err)
	}
	return backupPath, nil
}

// BackupDirectory recursively copies the subtree into tempDir under a
// unique name. A partial copy left by a failure is not cleaned up here; it
// is discarded with the artifact when the owning operation is closed.
func (s *Store) BackupDirectory(path, tempDir string) (string, error) {
	if err := s.fsys.MkdirAll(tempDir); err != nil {
		return "", fmt.Errorf("creating temp dir %s: %w", tempDir, err)
	}

	backupPath := filepath.Join(tempDir, s.idgen.New())
	if err := fstx.CopyTree(s.fsys, path, backupPath); err != nil {
		return "", fmt.Errorf("backing up directory %s: %w", path, err)
	}
	return backupPath, nil
}

// RestoreFile overwrites originalPath with the backup's full content.
func (s *Store) RestoreFile(backupPath, originalPath string) error {
	data, err := s.fsys.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", backupPath, err)
	}
	if err := s.fsys.WriteFile(originalPath, data); err != nil {
		return fmt.Errorf("restoring %s: %w", originalPath, err)
	}
	return nil
}

// RestoreDirectory moves the backup back to originalPath. The rename
// consumes the backup, which is cheaper than copying a tree that is about
// to be discarded anyway.
func (s *Store) RestoreDirectory(backupPath, originalPath string) error {
	return s.fsys.Rename(backupPath, originalPath)
}

// Remove discards a backup artifact, file or directory.
func (s *Store) Remove(backupPath string) error {
	return s.fsys.RemoveAll(backupPath)
}
