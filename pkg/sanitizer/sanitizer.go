// Package sanitizer validates entry names typed into the explorer before
// they are joined to a folder path.
package sanitizer

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyName is returned for names that are empty after trimming.
	ErrEmptyName = errors.New("name is required")
	// ErrReservedName is returned for "." and "..".
	ErrReservedName = errors.New("name is reserved")
	// ErrSeparator is returned for names containing a path separator.
	ErrSeparator = errors.New("name must not contain a path separator")
)

// EntryName trims surrounding whitespace from name and rejects names that
// cannot stand for a single directory entry.
func EntryName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)

	switch {
	case trimmed == "":
		return "", ErrEmptyName
	case trimmed == "." || trimmed == "..":
		return "", ErrReservedName
	case strings.ContainsAny(trimmed, `/\`):
		return "", ErrSeparator
	case strings.ContainsRune(trimmed, filepath.Separator):
		return "", ErrSeparator
	}

	return trimmed, nil
}

// JoinEntry validates name and joins it to dir.
func JoinEntry(dir, name string) (string, error) {
	clean, err := EntryName(name)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, clean), nil
}
