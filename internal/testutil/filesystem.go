package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"fstx-go/internal/fstx"
)

// MockFile represents a file or directory in the mock filesystem.
type MockFile struct {
	Content []byte
	IsDir   bool
}

// MockFilesystem is an in-memory implementation of fstx.Filesystem for
// testing. Failures can be injected per primitive and path with SetError.
type MockFilesystem struct {
	files  map[string]*MockFile
	errors map[string]error
}

var _ fstx.Filesystem = (*MockFilesystem)(nil)

// NewMockFilesystem creates an empty mock filesystem containing only the
// root directory.
func NewMockFilesystem() *MockFilesystem {
	return &MockFilesystem{
		files:  map[string]*MockFile{"/": {IsDir: true}},
		errors: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem, creating parent directories
// implicitly.
func (m *MockFilesystem) AddFile(path string, content []byte) {
	path = filepath.Clean(path)
	m.addParents(path)
	m.files[path] = &MockFile{Content: content}
}

// AddDirectory adds a directory to the mock filesystem, creating parent
// directories implicitly.
func (m *MockFilesystem) AddDirectory(path string) {
	path = filepath.Clean(path)
	m.addParents(path)
	m.files[path] = &MockFile{IsDir: true}
}

// SetError injects an error for a primitive ("write", "read", "rename",
// "remove", "mkdir", "list", "create", "append") at a specific path.
func (m *MockFilesystem) SetError(op, path string, err error) {
	m.errors[op+":"+filepath.Clean(path)] = err
}

// Content returns the content of a file, or nil if it does not exist.
func (m *MockFilesystem) Content(path string) []byte {
	f, ok := m.files[filepath.Clean(path)]
	if !ok || f.IsDir {
		return nil
	}
	return f.Content
}

// Paths returns all paths in the mock filesystem, sorted.
func (m *MockFilesystem) Paths() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MockFilesystem) addParents(path string) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; ok && m.files[dir].IsDir {
			break
		}
		m.files[dir] = &MockFile{IsDir: true}
		if dir == filepath.Dir(dir) {
			break
		}
	}
}

func (m *MockFilesystem) injected(op, path string) error {
	return m.errors[op+":"+path]
}

func (m *MockFilesystem) ReadFile(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if err := m.injected("read", path); err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	if f.IsDir {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	return append([]byte(nil), f.Content...), nil
}

func (m *MockFilesystem) WriteFile(path string, data []byte) error {
	path = filepath.Clean(path)
	if err := m.injected("write", path); err != nil {
		return err
	}
	parent, ok := m.files[filepath.Dir(path)]
	if !ok || !parent.IsDir {
		return fmt.Errorf("%s: %w", filepath.Dir(path), fs.ErrNotExist)
	}
	if f, ok := m.files[path]; ok && f.IsDir {
		return fmt.Errorf("%s: is a directory", path)
	}
	m.files[path] = &MockFile{Content: append([]byte(nil), data...)}
	return nil
}

func (m *MockFilesystem) AppendFile(path string, data []byte) error {
	path = filepath.Clean(path)
	if err := m.injected("append", path); err != nil {
		return err
	}
	f, ok := m.files[path]
	if !ok {
		return fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	if f.IsDir {
		return fmt.Errorf("%s: is a directory", path)
	}
	f.Content = append(f.Content, data...)
	return nil
}

func (m *MockFilesystem) CreateFile(path string) error {
	path = filepath.Clean(path)
	if err := m.injected("create", path); err != nil {
		return err
	}
	if _, ok := m.files[path]; ok {
		return fmt.Errorf("%s: %w", path, fs.ErrExist)
	}
	parent, ok := m.files[filepath.Dir(path)]
	if !ok || !parent.IsDir {
		return fmt.Errorf("%s: %w", filepath.Dir(path), fs.ErrNotExist)
	}
	m.files[path] = &MockFile{}
	return nil
}

func (m *MockFilesystem) MkdirAll(path string) error {
	path = filepath.Clean(path)
	if err := m.injected("mkdir", path); err != nil {
		return err
	}
	if f, ok := m.files[path]; ok && !f.IsDir {
		return fmt.Errorf("%s: %w", path, fs.ErrExist)
	}
	m.addParents(path)
	m.files[path] = &MockFile{IsDir: true}
	return nil
}

func (m *MockFilesystem) Remove(path string) error {
	path = filepath.Clean(path)
	if err := m.injected("remove", path); err != nil {
		return err
	}
	f, ok := m.files[path]
	if !ok {
		return fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	if f.IsDir {
		for p := range m.files {
			if strings.HasPrefix(p, path+"/") {
				return fmt.Errorf("%s: directory not empty", path)
			}
		}
	}
	delete(m.files, path)
	return nil
}

func (m *MockFilesystem) RemoveAll(path string) error {
	path = filepath.Clean(path)
	if err := m.injected("remove", path); err != nil {
		return err
	}
	delete(m.files, path)
	for p := range m.files {
		if strings.HasPrefix(p, path+"/") {
			delete(m.files, p)
		}
	}
	return nil
}

func (m *MockFilesystem) Rename(from, to string) error {
	from = filepath.Clean(from)
	to = filepath.Clean(to)
	if err := m.injected("rename", from); err != nil {
		return err
	}
	f, ok := m.files[from]
	if !ok {
		return fmt.Errorf("%s: %w", from, fs.ErrNotExist)
	}
	parent, ok := m.files[filepath.Dir(to)]
	if !ok || !parent.IsDir {
		return fmt.Errorf("%s: %w", filepath.Dir(to), fs.ErrNotExist)
	}

	moved := map[string]*MockFile{to: f}
	delete(m.files, from)
	if f.IsDir {
		for p, entry := range m.files {
			if strings.HasPrefix(p, from+"/") {
				moved[to+strings.TrimPrefix(p, from)] = entry
				delete(m.files, p)
			}
		}
	}
	for p, entry := range moved {
		m.files[p] = entry
	}
	return nil
}

func (m *MockFilesystem) ListDir(path string) ([]fstx.DirEntry, error) {
	path = filepath.Clean(path)
	if err := m.injected("list", path); err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	if !f.IsDir {
		return nil, fmt.Errorf("%s: not a directory", path)
	}

	var entries []fstx.DirEntry
	prefix := path + "/"
	if path == "/" {
		prefix = "/"
	}
	for p, entry := range m.files {
		if !strings.HasPrefix(p, prefix) || p == path {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		entries = append(entries, fstx.DirEntry{Name: rest, IsDir: entry.IsDir})
	}
	return entries, nil
}

func (m *MockFilesystem) Exists(path string) (bool, error) {
	path = filepath.Clean(path)
	if err := m.injected("exists", path); err != nil {
		return false, err
	}
	_, ok := m.files[path]
	return ok, nil
}
