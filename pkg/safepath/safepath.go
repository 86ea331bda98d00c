// Package safepath confines filesystem access to a vault root directory.
//
// A nil *Validator accepts every path, so callers can hold one
// unconditionally and only configure it when a root is known.
package safepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates an attempt to access a path outside the root.
	ErrPathEscape = errors.New("path escapes root directory")
	// ErrSymlinkEscape indicates a symlink resolves outside the root.
	ErrSymlinkEscape = errors.New("symlink target escapes root directory")
	// ErrInvalidRoot indicates the root path is invalid.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrRootMutation is returned when a caller tries to remove or rename the
	// root directory itself.
	ErrRootMutation = errors.New("cannot modify root directory")
)

// Validator ensures paths are contained within a root directory.
type Validator struct {
	root     string // absolute, cleaned, symlinks resolved
	rootPath string // absolute and cleaned as given
}

// New creates a Validator for the given root. The root must be an existing
// directory.
func New(root string) (*Validator, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	cleanRoot := filepath.Clean(resolvedRoot)

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidRoot)
	}

	return &Validator{root: cleanRoot, rootPath: filepath.Clean(absRoot)}, nil
}

// Root returns the absolute path to the root directory, or "" for a nil
// Validator.
func (v *Validator) Root() string {
	if v == nil {
		return ""
	}
	return v.root
}

// Contains reports whether path lies within the root. Symlinks are not
// followed.
func (v *Validator) Contains(path string) bool {
	return v.containsPath(path) == nil
}

// ValidatePathForRead checks containment and, when path is a symlink, that
// its target stays inside the root.
func (v *Validator) ValidatePathForRead(path string) error {
	if v == nil {
		return nil
	}
	if err := v.containsPath(path); err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		// Missing paths surface from the read itself.
		return nil
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil
	}
	if err := v.containsPath(target); err != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, target)
	}

	return nil
}

// ValidatePathForWrite checks containment and that the deepest existing
// ancestor of path does not resolve outside the root through a symlink.
func (v *Validator) ValidatePathForWrite(path string) error {
	if v == nil {
		return nil
	}
	if err := v.containsPath(path); err != nil {
		return err
	}

	resolved, err := resolveExistingPath(path)
	if err != nil {
		return err
	}
	if err := v.containsPath(resolved); err != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, resolved)
	}

	return nil
}

// ValidateRootMutation is ValidatePathForWrite that additionally refuses the
// root directory itself.
func (v *Validator) ValidateRootMutation(path string) error {
	if v == nil {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}
	cleanPath := filepath.Clean(absPath)
	if cleanPath == v.root || cleanPath == v.rootPath {
		return ErrRootMutation
	}

	return v.ValidatePathForWrite(path)
}

func (v *Validator) containsPath(path string) error {
	if v == nil {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	cleanPath := filepath.Clean(absPath)
	if isSubPath(v.root, cleanPath) || isSubPath(v.rootPath, cleanPath) {
		return nil
	}

	return ErrPathEscape
}

// isSubPath checks if child is parent or lies below it.
// Both paths must be absolute and clean.
func isSubPath(parent, child string) bool {
	if parent == child {
		return true
	}

	parentWithSep := parent
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}

	return strings.HasPrefix(child, parentWithSep)
}

func resolveExistingPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("cannot resolve symlinks: %w", err)
	}

	parent := filepath.Dir(absPath)
	if parent == absPath {
		return "", fmt.Errorf("cannot resolve symlinks: %w", err)
	}

	return resolveExistingPath(parent)
}
