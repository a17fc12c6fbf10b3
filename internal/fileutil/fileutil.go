package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile streams r into path with default permissions (0o644). The data
// lands in a temp file in the same directory and is renamed into place, so
// readers never observe a partially written file.
func WriteFile(path string, r io.Reader) (int64, error) {
	return WriteFileMode(path, r, 0o644)
}

// WriteFileMode streams r into path atomically, setting mode on the result.
func WriteFileMode(path string, r io.Reader, mode os.FileMode) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		return written, err
	}
	if err := tmp.Sync(); err != nil {
		return written, err
	}
	if err := tmp.Close(); err != nil {
		return written, err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return written, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return written, err
	}
	return written, nil
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
