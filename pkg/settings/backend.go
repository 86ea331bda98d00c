package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"crepbook/pkg/filelock"
)

// Backend stores the encoded settings document.
type Backend interface {
	// Load returns the stored document. A missing document is reported with
	// an error matching fs.ErrNotExist.
	Load() ([]byte, error)
	// Save replaces the stored document.
	Save(data []byte) error
	// Remove deletes the stored document. Removing a missing one succeeds.
	Remove() error
}

const (
	lockRetries    = 50
	lockRetryDelay = 10 * time.Millisecond
)

// FileBackend keeps the document in a file on disk.
type FileBackend struct {
	path     string
	lockPath string
}

// NewFileBackend returns a backend for the file at path. Writes are guarded
// by an advisory lock at lockPath, or path+".lock" when lockPath is empty.
func NewFileBackend(path, lockPath string) *FileBackend {
	if lockPath == "" {
		lockPath = path + ".lock"
	}
	return &FileBackend{path: path, lockPath: lockPath}
}

// Path returns the settings file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the settings file.
func (b *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return data, nil
}

// Save writes data to a temporary sibling and renames it over the settings
// file while holding the lock. Parent directories are created as needed.
func (b *FileBackend) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(b.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	return b.locked(func() error {
		return writeAtomic(b.path, data)
	})
}

// Remove deletes the settings file.
func (b *FileBackend) Remove() error {
	err := os.Remove(b.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove settings: %w", err)
	}
	return nil
}

// locked runs fn under the advisory lock, waiting briefly for another
// process to release it.
func (b *FileBackend) locked(fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := filelock.With(b.lockPath, fn)
		if !errors.Is(err, filelock.ErrLocked) || attempt >= lockRetries {
			return err
		}
		time.Sleep(lockRetryDelay)
	}
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace settings: %w", err)
	}

	return nil
}

// MemoryBackend keeps the document in memory. It is intended for tests.
type MemoryBackend struct {
	mu      sync.Mutex
	data    []byte
	present bool
	saves   int

	// SaveErr, when set, is returned by every Save.
	SaveErr error
}

// NewMemoryBackend returns a backend holding data. A nil data starts empty.
func NewMemoryBackend(data []byte) *MemoryBackend {
	m := &MemoryBackend{}
	if data != nil {
		m.data = append([]byte(nil), data...)
		m.present = true
	}
	return m
}

// Load returns a copy of the stored document.
func (m *MemoryBackend) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.present {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), m.data...), nil
}

// Save stores a copy of data.
func (m *MemoryBackend) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.present = true
	m.saves++
	return nil
}

// Remove drops the stored document.
func (m *MemoryBackend) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = nil
	m.present = false
	return nil
}

// Bytes returns the stored document and whether one is present.
func (m *MemoryBackend) Bytes() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.data...), m.present
}

// Saves returns how many times Save succeeded.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saves
}
