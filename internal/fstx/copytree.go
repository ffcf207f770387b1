package fstx

import (
	"fmt"
	"path/filepath"
)

// CopyTree recursively copies the subtree rooted at src into dst using the
// given filesystem, preserving relative structure. Files are copied
// byte-for-byte. Traversal order among siblings is unspecified; every
// directory is created before anything is copied into it.
func CopyTree(fsys Filesystem, src, dst string) error {
	return CopyTreeWith(fsys, src, dst, func(from, to string) error {
		data, err := fsys.ReadFile(from)
		if err != nil {
			return fmt.Errorf("reading %s: %w", from, err)
		}
		if err := fsys.WriteFile(to, data); err != nil {
			return fmt.Errorf("writing %s: %w", to, err)
		}
		return nil
	})
}

// CopyTreeWith is CopyTree with a caller-supplied per-file copy function,
// so stores that transform file content (such as an encrypting backup
// store) can reuse the same traversal.
//
// The traversal is an iterative depth-first walk with an explicit stack
// seeded with the source root. Each popped directory is mapped onto the
// destination root by its path relative to src and created there, then its
// file entries are copied and its subdirectories pushed.
func CopyTreeWith(fsys Filesystem, src, dst string, copyFile func(from, to string) error) error {
	stack := []string{src}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rel, err := filepath.Rel(src, dir)
		if err != nil {
			return fmt.Errorf("relativizing %s against %s: %w", dir, src, err)
		}
		target := filepath.Join(dst, rel)
		if err := fsys.MkdirAll(target); err != nil {
			return fmt.Errorf("creating %s: %w", target, err)
		}

		entries, err := fsys.ListDir(dir)
		if err != nil {
			return fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name)
			if entry.IsDir {
				stack = append(stack, full)
				continue
			}
			if err := copyFile(full, filepath.Join(target, entry.Name)); err != nil {
				return err
			}
		}
	}

	return nil
}
