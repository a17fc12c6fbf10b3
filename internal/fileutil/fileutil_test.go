package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "out.txt")

	n, err := WriteFile(dst, strings.NewReader("hello world"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 11 {
		t.Fatalf("expected 11 bytes written, got %d", n)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteFileMode(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "dst.bin")

	if _, err := WriteFileMode(dst, strings.NewReader("data"), 0o600); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode = %o, want 600", perm)
	}
}

func TestWriteFileReplacesExisting(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(dst, []byte("old content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteFile(dst, strings.NewReader("new")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("expected replacement, got %q", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestWriteFileLeavesNoTempOnError(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "partial.txt")

	if _, err := WriteFile(dst, failingReader{}); err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x")
	if Exists(path) {
		t.Fatal("missing file reported as existing")
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Fatal("expected file to exist")
	}
	if Exists(dir) {
		t.Fatal("directory should not count as a file")
	}
}
