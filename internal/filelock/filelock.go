// Package filelock serializes writers of an output folder and replaces
// output files atomically, so a reader never sees a half-written summary.
package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is the lock file created inside a locked output folder.
const LockFileName = ".filestat.lock"

// DefaultRetryDelay is how often LockContext retries a held lock.
const DefaultRetryDelay = 50 * time.Millisecond

// FileLock wraps a flock file lock for coordinating access to an output folder.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock backed by the file at path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// ForDir returns the lock guarding writes to dir. The folder must exist
// before the lock is taken.
func ForDir(dir string) *FileLock {
	return NewFileLock(filepath.Join(dir, LockFileName))
}

// LockContext retries the lock every retryDelay until it is acquired or
// ctx is done.
func (fl *FileLock) LockContext(ctx context.Context, retryDelay time.Duration) error {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	acquired, err := fl.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !acquired {
		return fmt.Errorf("failed to acquire lock on %s", fl.path)
	}
	return nil
}

// Unlock releases the lock. The lock file itself is left in place.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite writes data to path through a temp file in the same folder
// followed by a rename. If anything fails the previous file, if any, is
// left untouched and the temp file is removed.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	committed := false
	defer func() {
		if !committed {
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

	// CreateTemp uses 0600
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	committed = true
	return nil
}

// File is one output file to be written by WriteAll.
type File struct {
	Name string // File name relative to the output folder
	Data []byte
}

// WriteAll creates dir if needed, takes its lock, and atomically writes
// every file in order. The first failure stops the sequence; files written
// before it are kept.
func WriteAll(ctx context.Context, dir string, files ...File) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output folder %s: %w", dir, err)
	}

	lock := ForDir(dir)
	if err := lock.LockContext(ctx, DefaultRetryDelay); err != nil {
		return err
	}
	defer lock.Unlock()

	for _, f := range files {
		if err := AtomicWrite(filepath.Join(dir, f.Name), f.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	return nil
}
