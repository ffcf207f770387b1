package fstx

import "fmt"

// WriteFile overwrites the content of an existing file with a payload.
// The prior content is backed up before the write so Rollback can restore
// it byte-for-byte.
type WriteFile struct {
	fsys    Filesystem
	backups BackupStore
	path    string
	tempDir string
	payload []byte

	// backupPath is empty exactly while no backup has been taken.
	backupPath string
}

var _ Operation = (*WriteFile)(nil)

// NewWriteFile creates a WriteFile operation. tempDir is where the backup
// of the file's current content will be written.
func NewWriteFile(fsys Filesystem, backups BackupStore, path, tempDir string, payload []byte) *WriteFile {
	return &WriteFile{
		fsys:    fsys,
		backups: backups,
		path:    path,
		tempDir: tempDir,
		payload: payload,
	}
}

// Execute backs up the file's current content and then overwrites it with
// the payload. The file must already exist: if it cannot be read for the
// backup, Execute fails before anything is mutated.
func (op *WriteFile) Execute() error {
	backupPath, err := op.backups.BackupFile(op.path, op.tempDir)
	if err != nil {
		return fmt.Errorf("backing up %s: %w", op.path, err)
	}
	op.backupPath = backupPath

	return op.fsys.WriteFile(op.path, op.payload)
}

// Rollback restores the file from its backup (truncate and write).
func (op *WriteFile) Rollback() error {
	if op.backupPath == "" {
		return nil
	}
	return op.backups.RestoreFile(op.backupPath, op.path)
}

// Close discards the backup artifact.
func (op *WriteFile) Close() error {
	if op.backupPath == "" {
		return nil
	}
	return op.backups.Remove(op.backupPath)
}

func (op *WriteFile) Kind() string { return KindWriteFile }
func (op *WriteFile) Path() string { return op.path }

// AppendFile appends a payload to the end of an existing file. The prior
// content is backed up before the append so Rollback can restore it.
type AppendFile struct {
	fsys    Filesystem
	backups BackupStore
	path    string
	tempDir string
	payload []byte

	backupPath string
}

var _ Operation = (*AppendFile)(nil)

// NewAppendFile creates an AppendFile operation. tempDir is where the
// backup of the file's current content will be written.
func NewAppendFile(fsys Filesystem, backups BackupStore, path, tempDir string, payload []byte) *AppendFile {
	return &AppendFile{
		fsys:    fsys,
		backups: backups,
		path:    path,
		tempDir: tempDir,
		payload: payload,
	}
}

// Execute backs up the file's current content and then appends the payload.
// If the backup cannot be taken, Execute fails before anything is mutated.
func (op *AppendFile) Execute() error {
	backupPath, err := op.backups.BackupFile(op.path, op.tempDir)
	if err != nil {
		return fmt.Errorf("backing up %s: %w", op.path, err)
	}
	op.backupPath = backupPath

	return op.fsys.AppendFile(op.path, op.payload)
}

// Rollback restores the file from its backup (truncate and write).
func (op *AppendFile) Rollback() error {
	if op.backupPath == "" {
		return nil
	}
	return op.backups.RestoreFile(op.backupPath, op.path)
}

// Close discards the backup artifact.
func (op *AppendFile) Close() error {
	if op.backupPath == "" {
		return nil
	}
	return op.backups.Remove(op.backupPath)
}

func (op *AppendFile) Kind() string { return KindAppendFile }
func (op *AppendFile) Path() string { return op.path }
