// Package metadata manages the per-user application directory that holds
// crepbook's settings file, mutation journal and lock file.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the application directory inside the user config directory.
const AppName = "crepbook"

// SettingsFileName is the settings file inside the application directory.
const SettingsFileName = ".crepbook.settings.json"

// Dir provides access to the application directory structure.
type Dir struct {
	root string
}

// DefaultRoot returns <user config dir>/crepbook.
func DefaultRoot() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}

	return filepath.Join(base, AppName), nil
}

// Init creates and returns a Dir rooted at root. An empty root selects
// DefaultRoot. The directory is created if it does not already exist.
func Init(root string) (*Dir, error) {
	if root == "" {
		var err error
		root, err = DefaultRoot()
		if err != nil {
			return nil, err
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve application directory: %w", err)
	}

	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create application directory: %w", err)
	}

	return &Dir{root: absRoot}, nil
}

// Root returns the absolute path to the application directory.
func (d *Dir) Root() string {
	return d.root
}

// SettingsPath returns the settings file path.
func (d *Dir) SettingsPath() string {
	return filepath.Join(d.root, SettingsFileName)
}

// JournalPath returns the mutation journal path.
func (d *Dir) JournalPath() string {
	return filepath.Join(d.root, "journal.jsonl")
}

// LockPath returns the advisory lock file guarding settings writes.
func (d *Dir) LockPath() string {
	return filepath.Join(d.root, "settings.lock")
}

// HasJournal reports whether a journal file has been written.
func (d *Dir) HasJournal() bool {
	_, err := os.Stat(d.JournalPath())
	return !errors.Is(err, os.ErrNotExist)
}
