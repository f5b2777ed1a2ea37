// Package filelock serializes edits to shared TDD artifacts.
//
// The backlog table is rewritten in place by create-behavior. Two developers
// (or two agents) creating behaviors at the same moment would otherwise read
// the same version and one row would be lost. Update takes an exclusive
// advisory lock next to the target, then replaces the file atomically.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrSkipWrite may be returned by an UpdateFunc to leave the file untouched
// without reporting a failure
var ErrSkipWrite = errors.New("skip write")

// UpdateFunc receives the current file content and returns the replacement
type UpdateFunc func(current []byte) ([]byte, error)

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Lock acquires an exclusive lock on the file, blocking until the lock is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// LockPath returns the lock file used to guard path
func LockPath(path string) string {
	return path + ".lock"
}

// AtomicWrite writes data to a file atomically using a temp file and rename strategy.
// Readers never observe a partially written file. The parent directory is
// created when missing.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory as the target so the rename stays on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// Update reads path, passes its content to fn and atomically writes the
// result, all while holding the lock at LockPath(path).
//
// The file must already exist: a missing file is returned as an error that
// satisfies errors.Is(err, os.ErrNotExist). When fn returns ErrSkipWrite the
// file is left untouched and Update returns ErrSkipWrite (possibly wrapped).
func Update(path string, fn UpdateFunc) error {
	lock := NewFileLock(LockPath(path))
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	current, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, err := fn(current)
	if err != nil {
		return err
	}

	return AtomicWrite(path, updated)
}
