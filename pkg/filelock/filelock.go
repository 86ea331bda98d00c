// Package filelock serializes writes to the settings file across crepbook
// processes with an advisory lock on a sibling lock file.
package filelock

import (
	"errors"
	"fmt"
	"os"
)

// ErrLocked is wrapped by Acquire when another process is writing settings.
var ErrLocked = errors.New("lock held by another process")

// Lock is a held settings lock. The lock file exists only while it is held.
type Lock struct {
	file *os.File
}

// Acquire creates the lock file at path and locks it exclusively without
// waiting. Callers that can wait retry on ErrLocked.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquire lock: %w: %w", ErrLocked, err)
	}

	return &Lock{file: f}, nil
}

// Close unlocks and deletes the lock file. A nil Lock is a no-op.
func (l *Lock) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	path := l.file.Name()
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	removeErr := os.Remove(path)
	l.file = nil

	switch {
	case unlockErr != nil:
		return fmt.Errorf("unlock: %w", unlockErr)
	case closeErr != nil:
		return fmt.Errorf("close lock file: %w", closeErr)
	case removeErr != nil && !errors.Is(removeErr, os.ErrNotExist):
		return fmt.Errorf("remove lock file: %w", removeErr)
	}

	return nil
}

// With holds the lock at path for the duration of fn. The error from fn
// takes precedence over a release error.
func With(path string, fn func() error) error {
	lock, err := Acquire(path)
	if err != nil {
		return err
	}

	fnErr := fn()
	closeErr := lock.Close()
	if fnErr != nil {
		return fnErr
	}

	return closeErr
}
