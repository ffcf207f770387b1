package fstx_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"fstx-go/internal/backup"
	intfs "fstx-go/internal/fs"
	"fstx-go/internal/fstx"
	"fstx-go/internal/testutil"
)

// newTestEnv returns a real filesystem, a backup store with deterministic
// artifact names, and a scratch directory for backups.
func newTestEnv(t *testing.T) (fstx.Filesystem, fstx.BackupStore, string) {
	t.Helper()
	fsys := intfs.NewOSFilesystem()
	store := backup.NewStore(fsys, testutil.NewSequenceIDGenerator())
	return fsys, store, filepath.Join(t.TempDir(), "backups")
}

func mustWrite(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	t.Fatalf("stat %s: %v", path, err)
	return false
}

func TestCreateFile(t *testing.T) {
	t.Run("creates and removes on rollback", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "new.txt")

		op := fstx.NewCreateFile(fsys, path)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !exists(t, path) {
			t.Fatal("file was not created")
		}

		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if exists(t, path) {
			t.Error("file still exists after rollback")
		}
	})

	t.Run("fails when file already exists", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "existing.txt")
		mustWrite(t, path, "keep me")

		op := fstx.NewCreateFile(fsys, path)
		if err := op.Execute(); err == nil {
			t.Fatal("Execute() expected error for existing file")
		}
		if got := readFile(t, path); got != "keep me" {
			t.Errorf("content = %q, want %q", got, "keep me")
		}
	})

	t.Run("fails when parent directory missing", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "missing", "new.txt")

		op := fstx.NewCreateFile(fsys, path)
		if err := op.Execute(); err == nil {
			t.Fatal("Execute() expected error for missing parent")
		}
	})
}

func TestCreateDirectory(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "a", "b", "c")

		op := fstx.NewCreateDirectory(fsys, path)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if !info.IsDir() {
			t.Error("created path is not a directory")
		}
	})

	t.Run("rollback removes the whole created chain", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		base := t.TempDir()
		path := filepath.Join(base, "a", "b", "c")

		op := fstx.NewCreateDirectory(fsys, path)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}

		// Not just the leaf: the topmost created component is gone too.
		if exists(t, filepath.Join(base, "a")) {
			t.Error("created ancestor still exists after rollback")
		}
		if !exists(t, base) {
			t.Error("pre-existing base directory was removed")
		}
	})

	t.Run("rollback keeps pre-existing ancestors", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		base := t.TempDir()
		if err := os.MkdirAll(filepath.Join(base, "a"), 0755); err != nil {
			t.Fatal(err)
		}
		mustWrite(t, filepath.Join(base, "a", "keep.txt"), "data")

		op := fstx.NewCreateDirectory(fsys, filepath.Join(base, "a", "b", "c"))
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}

		if exists(t, filepath.Join(base, "a", "b")) {
			t.Error("created subtree still exists after rollback")
		}
		if !exists(t, filepath.Join(base, "a", "keep.txt")) {
			t.Error("sibling file in pre-existing directory was removed")
		}
	})

	t.Run("rollback is a no-op when path pre-existed", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		base := t.TempDir()
		path := filepath.Join(base, "existing")
		if err := os.MkdirAll(path, 0755); err != nil {
			t.Fatal(err)
		}

		op := fstx.NewCreateDirectory(fsys, path)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}

		if !exists(t, path) {
			t.Error("pre-existing directory was removed by rollback")
		}
	})

	t.Run("rollback before execute is a no-op", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)

		op := fstx.NewCreateDirectory(fsys, filepath.Join(t.TempDir(), "never"))
		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("overwrites and restores byte-for-byte", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "file.txt")
		mustWrite(t, path, "original content")

		op := fstx.NewWriteFile(fsys, store, path, tempDir, []byte("replacement"))
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if got := readFile(t, path); got != "replacement" {
			t.Errorf("content = %q, want %q", got, "replacement")
		}

		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if got := readFile(t, path); got != "original content" {
			t.Errorf("restored content = %q, want %q", got, "original content")
		}
	})

	t.Run("fails before mutating when file missing", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "missing.txt")

		op := fstx.NewWriteFile(fsys, store, path, tempDir, []byte("data"))
		if err := op.Execute(); err == nil {
			t.Fatal("Execute() expected error for missing file")
		}
		if exists(t, path) {
			t.Error("file was created despite failed execute")
		}
	})

	t.Run("close discards the backup artifact", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "file.txt")
		mustWrite(t, path, "original")

		op := fstx.NewWriteFile(fsys, store, path, tempDir, []byte("new"))
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		backupPath := filepath.Join(tempDir, "id-1")
		if !exists(t, backupPath) {
			t.Fatal("backup artifact was not written")
		}

		if err := op.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if exists(t, backupPath) {
			t.Error("backup artifact still exists after close")
		}
	})
}

func TestAppendFile(t *testing.T) {
	t.Run("appends and restores on rollback", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "log.txt")
		mustWrite(t, path, "line one\n")

		op := fstx.NewAppendFile(fsys, store, path, tempDir, []byte("line two\n"))
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if got := readFile(t, path); got != "line one\nline two\n" {
			t.Errorf("content = %q, want %q", got, "line one\nline two\n")
		}

		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if got := readFile(t, path); got != "line one\n" {
			t.Errorf("restored content = %q, want %q", got, "line one\n")
		}
	})

	t.Run("fails when file missing", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "missing.txt")

		op := fstx.NewAppendFile(fsys, store, path, tempDir, []byte("data"))
		if err := op.Execute(); err == nil {
			t.Fatal("Execute() expected error for missing file")
		}
		if exists(t, path) {
			t.Error("file was created despite failed execute")
		}
	})
}

func TestCopyFile(t *testing.T) {
	t.Run("copies and removes destination on rollback", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		dir := t.TempDir()
		src := filepath.Join(dir, "src.txt")
		dst := filepath.Join(dir, "dst.txt")
		mustWrite(t, src, "payload")

		op := fstx.NewCopyFile(fsys, src, dst)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if got := readFile(t, dst); got != "payload" {
			t.Errorf("dst content = %q, want %q", got, "payload")
		}

		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if exists(t, dst) {
			t.Error("destination still exists after rollback")
		}
		if got := readFile(t, src); got != "payload" {
			t.Errorf("source content = %q, want %q", got, "payload")
		}
	})

	t.Run("fails when source missing", func(t *testing.T) {
		fsys, _, _ := newTestEnv(t)
		dir := t.TempDir()

		op := fstx.NewCopyFile(fsys, filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
		if err := op.Execute(); err == nil {
			t.Fatal("Execute() expected error for missing source")
		}
	})
}

func TestCopyDirectory(t *testing.T) {
	fsys, _, _ := newTestEnv(t)
	dir := t.TempDir()

	// src/
	//   top.txt
	//   sub/
	//     nested.txt
	//     deeper/
	//       leaf.txt
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(src, "sub", "deeper"), 0755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(src, "top.txt"), "top")
	mustWrite(t, filepath.Join(src, "sub", "nested.txt"), "nested")
	mustWrite(t, filepath.Join(src, "sub", "deeper", "leaf.txt"), "leaf")

	dst := filepath.Join(dir, "dst")
	op := fstx.NewCopyDirectory(fsys, src, dst)
	if err := op.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for rel, want := range map[string]string{
		"top.txt":                          "top",
		filepath.Join("sub", "nested.txt"): "nested",
		filepath.Join("sub", "deeper", "leaf.txt"): "leaf",
	} {
		if got := readFile(t, filepath.Join(dst, rel)); got != want {
			t.Errorf("%s content = %q, want %q", rel, got, want)
		}
	}

	if err := op.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if exists(t, dst) {
		t.Error("destination still exists after rollback")
	}
	if got := readFile(t, filepath.Join(src, "sub", "nested.txt")); got != "nested" {
		t.Error("source tree was modified")
	}
}

func TestMoveFile(t *testing.T) {
	fsys, _, _ := newTestEnv(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	mustWrite(t, src, "payload")

	op := fstx.NewMoveFile(fsys, src, dst)
	if err := op.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if exists(t, src) {
		t.Error("source still exists after move")
	}
	if got := readFile(t, dst); got != "payload" {
		t.Errorf("dst content = %q, want %q", got, "payload")
	}

	if err := op.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if exists(t, dst) {
		t.Error("destination still exists after rollback")
	}
	if got := readFile(t, src); got != "payload" {
		t.Errorf("src content after rollback = %q, want %q", got, "payload")
	}
}

func TestMoveDirectory(t *testing.T) {
	fsys, _, _ := newTestEnv(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(src, "sub", "file.txt"), "data")

	op := fstx.NewMoveDirectory(fsys, src, dst)
	if err := op.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "sub", "file.txt")); got != "data" {
		t.Errorf("moved content = %q, want %q", got, "data")
	}

	if err := op.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if got := readFile(t, filepath.Join(src, "sub", "file.txt")); got != "data" {
		t.Errorf("restored content = %q, want %q", got, "data")
	}
	if exists(t, dst) {
		t.Error("destination still exists after rollback")
	}
}

func TestDeleteFile(t *testing.T) {
	t.Run("deletes and restores byte-for-byte", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "doomed.txt")
		mustWrite(t, path, "precious bytes")

		op := fstx.NewDeleteFile(fsys, store, path, tempDir)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if exists(t, path) {
			t.Fatal("file still exists after delete")
		}

		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if got := readFile(t, path); got != "precious bytes" {
			t.Errorf("restored content = %q, want %q", got, "precious bytes")
		}
	})

	t.Run("backup survives rollback until close", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "doomed.txt")
		mustWrite(t, path, "data")

		op := fstx.NewDeleteFile(fsys, store, path, tempDir)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}

		// File restores are copies: the artifact is kept until Close.
		backupPath := filepath.Join(tempDir, "id-1")
		if !exists(t, backupPath) {
			t.Error("backup artifact gone before close")
		}

		if err := op.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if exists(t, backupPath) {
			t.Error("backup artifact still exists after close")
		}
	})

	t.Run("fails when file missing", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)

		op := fstx.NewDeleteFile(fsys, store, filepath.Join(t.TempDir(), "missing"), tempDir)
		if err := op.Execute(); err == nil {
			t.Fatal("Execute() expected error for missing file")
		}
	})
}

func TestDeleteDirectory(t *testing.T) {
	t.Run("deletes and restores the subtree", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		dir := filepath.Join(t.TempDir(), "victim")
		if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
			t.Fatal(err)
		}
		mustWrite(t, filepath.Join(dir, "top.txt"), "top")
		mustWrite(t, filepath.Join(dir, "sub", "nested.txt"), "nested")

		op := fstx.NewDeleteDirectory(fsys, store, dir, tempDir)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if exists(t, dir) {
			t.Fatal("directory still exists after delete")
		}

		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if got := readFile(t, filepath.Join(dir, "top.txt")); got != "top" {
			t.Errorf("restored content = %q, want %q", got, "top")
		}
		if got := readFile(t, filepath.Join(dir, "sub", "nested.txt")); got != "nested" {
			t.Errorf("restored content = %q, want %q", got, "nested")
		}
	})

	t.Run("rollback consumes the backup", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)
		dir := filepath.Join(t.TempDir(), "victim")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		mustWrite(t, filepath.Join(dir, "file.txt"), "data")

		op := fstx.NewDeleteDirectory(fsys, store, dir, tempDir)
		if err := op.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		backupPath := filepath.Join(tempDir, "id-1")
		if !exists(t, backupPath) {
			t.Fatal("backup was not written")
		}

		if err := op.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}

		// Directory restores move the backup into place.
		if exists(t, backupPath) {
			t.Error("backup still exists after rollback")
		}

		// Close after a consuming rollback must not fail.
		if err := op.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	})

	t.Run("fails when directory missing", func(t *testing.T) {
		fsys, store, tempDir := newTestEnv(t)

		op := fstx.NewDeleteDirectory(fsys, store, filepath.Join(t.TempDir(), "missing"), tempDir)
		if err := op.Execute(); err == nil {
			t.Fatal("Execute() expected error for missing directory")
		}
	})
}
