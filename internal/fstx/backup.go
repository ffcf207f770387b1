package fstx

// BackupStore provides an interface for snapshotting a file or directory
// before it is mutated or removed, and later restoring or discarding the
// snapshot. Backup artifacts live under a caller-supplied temp directory
// and are named with generated unique IDs, so distinct operations may
// safely share a temp directory.
type BackupStore interface {
	// BackupFile copies the entire content of the file at path into
	// tempDir under a freshly generated unique name, creating tempDir
	// if needed. It returns the path of the backup artifact.
	BackupFile(path, tempDir string) (string, error)

	// BackupDirectory recursively copies the subtree rooted at path into
	// tempDir under a freshly generated unique name, preserving relative
	// structure. Partial copies are not cleaned up on failure; the
	// artifact is discarded when the owning operation is closed.
	BackupDirectory(path, tempDir string) (string, error)

	// RestoreFile overwrites originalPath with the full content of the
	// backup (truncate and write, not append). The backup remains in
	// place until Remove is called.
	RestoreFile(backupPath, originalPath string) error

	// RestoreDirectory places the backed-up subtree back at originalPath.
	// The backup is consumed: after a successful restore the backup
	// location no longer exists.
	RestoreDirectory(backupPath, originalPath string) error

	// Remove discards a backup artifact (file or directory). Called once
	// the owning operation's outcome is final and no further rollback
	// will be requested.
	Remove(backupPath string) error
}
