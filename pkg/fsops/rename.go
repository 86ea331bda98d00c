package fsops

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"crepbook/pkg/journal"
)

// NextAvailableFilePath returns path when nothing occupies it, otherwise the
// first free sibling with the stem renumbered and the extension kept.
// It never fails and never creates anything.
func (o *Ops) NextAvailableFilePath(path string) string {
	return o.resolver.NextFilePath(path)
}

// NextAvailableDirPath is NextAvailableFilePath for directories: the whole
// final component is renumbered.
func (o *Ops) NextAvailableDirPath(path string) string {
	return o.resolver.NextDirPath(path)
}

// RenameFile moves oldPath to newPath, or to the next free file path when
// newPath is taken, and returns the path actually used. Renaming a path to
// itself succeeds without touching the filesystem.
func (o *Ops) RenameFile(oldPath, newPath string) (string, error) {
	return o.rename(oldPath, newPath, o.resolver.NextFilePath, false)
}

// RenameDir is RenameFile for directories. The confinement root itself
// cannot be renamed.
func (o *Ops) RenameDir(oldPath, newPath string) (string, error) {
	return o.rename(oldPath, newPath, o.resolver.NextDirPath, true)
}

func (o *Ops) rename(oldPath, newPath string, resolve func(string) string, dir bool) (string, error) {
	if samePath(oldPath, newPath) {
		return oldPath, nil
	}

	validateSource := o.validator.ValidatePathForWrite
	if dir {
		validateSource = o.validator.ValidateRootMutation
	}
	if err := validateSource(oldPath); err != nil {
		err = wrap("rename", oldPath, err)
		o.record(journal.OpRename, oldPath, newPath, err)
		return "", err
	}
	if err := o.validator.ValidatePathForWrite(newPath); err != nil {
		err = wrap("rename", newPath, err)
		o.record(journal.OpRename, oldPath, newPath, err)
		return "", err
	}

	target := resolve(newPath)
	if target != newPath {
		o.logger.Debug("rename target renumbered",
			zap.String("requested", newPath),
			zap.String("target", target))
	}

	err := wrap("rename", oldPath, os.Rename(oldPath, target))
	o.record(journal.OpRename, oldPath, target, err)
	if err != nil {
		return "", err
	}

	return target, nil
}

// samePath compares absolute forms so that a relative path and its absolute
// spelling name the same entry.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
