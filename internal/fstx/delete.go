package fstx

import "fmt"

// DeleteFile removes a file after backing up its content. Rollback copies
// the backup's content back to the original path; the backup itself stays
// in place until Close, so rollback could be retried by hand if the copy
// back fails.
type DeleteFile struct {
	fsys    Filesystem
	backups BackupStore
	path    string
	tempDir string

	backupPath string
}

var _ Operation = (*DeleteFile)(nil)

// NewDeleteFile creates a DeleteFile operation. tempDir is where the backup
// of the file's content will be written.
func NewDeleteFile(fsys Filesystem, backups BackupStore, path, tempDir string) *DeleteFile {
	return &DeleteFile{
		fsys:    fsys,
		backups: backups,
		path:    path,
		tempDir: tempDir,
	}
}

// Execute backs up the file's content and then removes the file. If the
// backup cannot be taken, Execute fails before the file is touched.
func (op *DeleteFile) Execute() error {
	backupPath, err := op.backups.BackupFile(op.path, op.tempDir)
	if err != nil {
		return fmt.Errorf("backing up %s: %w", op.path, err)
	}
	op.backupPath = backupPath

	return op.fsys.Remove(op.path)
}

// Rollback copies the backup's content back to the original path.
func (op *DeleteFile) Rollback() error {
	if op.backupPath == "" {
		return nil
	}
	return op.backups.RestoreFile(op.backupPath, op.path)
}

// Close discards the backup artifact.
func (op *DeleteFile) Close() error {
	if op.backupPath == "" {
		return nil
	}
	return op.backups.Remove(op.backupPath)
}

func (op *DeleteFile) Kind() string { return KindDeleteFile }
func (op *DeleteFile) Path() string { return op.path }

// DeleteDirectory removes a directory subtree after backing it up.
// Rollback moves the backup back to the original path rather than copying
// it: the backup is consumed, and after a successful rollback the backup
// location no longer exists.
type DeleteDirectory struct {
	fsys    Filesystem
	backups BackupStore
	path    string
	tempDir string

	backupPath string
	restored   bool
}

var _ Operation = (*DeleteDirectory)(nil)

// NewDeleteDirectory creates a DeleteDirectory operation. tempDir is where
// the backup of the subtree will be written.
func NewDeleteDirectory(fsys Filesystem, backups BackupStore, path, tempDir string) *DeleteDirectory {
	return &DeleteDirectory{
		fsys:    fsys,
		backups: backups,
		path:    path,
		tempDir: tempDir,
	}
}

// Execute recursively backs up the subtree and then removes the original.
// If the backup cannot be taken, Execute fails before the subtree is
// touched.
func (op *DeleteDirectory) Execute() error {
	backupPath, err := op.backups.BackupDirectory(op.path, op.tempDir)
	if err != nil {
		return fmt.Errorf("backing up %s: %w", op.path, err)
	}
	op.backupPath = backupPath

	return op.fsys.RemoveAll(op.path)
}

// Rollback moves the backup back to the original path, consuming it.
func (op *DeleteDirectory) Rollback() error {
	if op.backupPath == "" {
		return nil
	}
	if err := op.backups.RestoreDirectory(op.backupPath, op.path); err != nil {
		return err
	}
	op.restored = true
	return nil
}

// Close discards the backup artifact unless rollback already consumed it.
func (op *DeleteDirectory) Close() error {
	if op.backupPath == "" || op.restored {
		return nil
	}
	return op.backups.Remove(op.backupPath)
}

func (op *DeleteDirectory) Kind() string { return KindDeleteDirectory }
func (op *DeleteDirectory) Path() string { return op.path }
