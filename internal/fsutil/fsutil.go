// Package fsutil provides the write primitives used by remediation. Every helper checks
// whether its work is already done, so a second run changes nothing.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	FilePerm = 0o644
	DirPerm  = 0o755
)

// CreateExclusive writes data to path only if nothing exists there yet. It reports whether the
// file was created. Missing parent directories are created.
func CreateExclusive(path string, data []byte) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return false, fmt.Errorf("failed to create parent directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePerm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}

		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err = file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(path)

		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err = file.Close(); err != nil {
		_ = os.Remove(path)

		return false, fmt.Errorf("failed to close %s: %w", path, err)
	}

	return true, nil
}

// EnsureDir creates path if it is missing and reports whether it did.
func EnsureDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", path)
		}

		return false, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err = os.MkdirAll(path, DirPerm); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return true, nil
}

// AtomicWrite replaces path with data using a temp file in the same directory and a rename.
// The existing file mode is kept.
func AtomicWrite(path string, data []byte) error {
	perm := os.FileMode(FilePerm)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err = tmp.Write(data); err != nil {
		cleanup()

		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err = tmp.Chmod(perm); err != nil {
		cleanup()

		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
