package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fstx-go/internal/fstx"
)

// OSFilesystem is the real filesystem implementation of fstx.Filesystem.
// It performs actual filesystem operations using the os package.
type OSFilesystem struct{}

// NewOSFilesystem creates a filesystem that operates on the real filesystem.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// ReadFile reads the entire content of the file at path.
func (*OSFilesystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the content of the file at path with data, creating
// the file if needed and truncating it otherwise.
func (*OSFilesystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// AppendFile appends data to the end of an existing file.
func (*OSFilesystem) AppendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// CreateFile creates a new empty file at path. Fails if the path already
// exists or the parent directory is missing.
func (*OSFilesystem) CreateFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

// MkdirAll creates the directory at path along with any missing parents.
func (*OSFilesystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Remove removes a single file.
func (*OSFilesystem) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll removes path and everything under it.
func (*OSFilesystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Rename relocates a file or directory.
func (*OSFilesystem) Rename(from, to string) error {
	return os.Rename(from, to)
}

// ListDir returns the entries of the directory at path.
func (*OSFilesystem) ListDir(path string) ([]fstx.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	result := make([]fstx.DirEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, fstx.DirEntry{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
		})
	}
	return result, nil
}

// Exists reports whether anything exists at path.
func (*OSFilesystem) Exists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Compile-time check that OSFilesystem implements fstx.Filesystem
var _ fstx.Filesystem = (*OSFilesystem)(nil)
