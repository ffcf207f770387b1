package fstx

// DirEntry describes one entry of a directory listing.
// Order of entries returned by ListDir is unspecified.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Filesystem provides an interface for the filesystem primitives that
// operations are built on. It abstracts file access to enable testing
// without touching the real filesystem.
type Filesystem interface {
	// ReadFile reads the entire content of the file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the content of the file at path with data,
	// creating the file if it does not exist and truncating it if it does.
	// Fails if the parent directory is missing.
	WriteFile(path string, data []byte) error

	// AppendFile appends data to the end of an existing file.
	// Fails if the file does not exist.
	AppendFile(path string, data []byte) error

	// CreateFile creates a new empty file at path.
	// Fails if the path already exists or the parent directory is missing.
	CreateFile(path string) error

	// MkdirAll creates the directory at path along with any missing parents.
	// It is a no-op if the directory already exists.
	MkdirAll(path string) error

	// Remove removes a single file.
	Remove(path string) error

	// RemoveAll removes path and everything under it.
	RemoveAll(path string) error

	// Rename relocates a file or directory. It is atomic on the same
	// volume; cross-volume behavior is left to the host platform.
	Rename(from, to string) error

	// ListDir returns the entries of the directory at path.
	ListDir(path string) ([]DirEntry, error)

	// Exists reports whether anything exists at path.
	Exists(path string) (bool, error)
}
