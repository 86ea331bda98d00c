// Package fsops is the filesystem access layer used by the explorer: file
// and folder CRUD, directory listing, and collision-free create and rename
// built on package renumber.
//
// Every call goes straight to the OS. Nothing is cached and nothing runs in
// the background, so a path returned by NextAvailableFilePath can be taken by
// another writer before the caller uses it.
package fsops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"

	"crepbook/pkg/journal"
	"crepbook/pkg/renumber"
	"crepbook/pkg/safepath"
)

// Recorder receives one entry per attempted mutation.
type Recorder interface {
	Log(entry journal.Entry) error
}

// Options configures Ops.
type Options struct {
	// Root confines every path to this directory when set.
	Root string
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Journal records mutations when set.
	Journal Recorder
}

// Ops performs filesystem operations. It is safe for concurrent use, but
// concurrent callers race on the filesystem itself.
type Ops struct {
	validator *safepath.Validator
	resolver  *renumber.Resolver
	logger    *zap.Logger
	journal   Recorder
}

// DirContent lists the direct children of a directory as full paths, in the
// order the filesystem returned them.
type DirContent struct {
	Dirs  []string `json:"dirs" yaml:"dirs"`
	Files []string `json:"files" yaml:"files"`
}

// New creates Ops from opts.
func New(opts Options) (*Ops, error) {
	var validator *safepath.Validator
	if opts.Root != "" {
		v, err := safepath.New(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to create path validator: %w", err)
		}
		validator = v
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ops{
		validator: validator,
		resolver:  renumber.New(renumber.ExistsFunc(lexists)),
		logger:    logger.Named("fsops"),
		journal:   opts.Journal,
	}, nil
}

// Root returns the confinement root, or "" when unconfined.
func (o *Ops) Root() string {
	return o.validator.Root()
}

// Contains reports whether path lies inside the confinement root. Every path
// is contained when unconfined.
func (o *Ops) Contains(path string) bool {
	return o.validator.Contains(path)
}

// lexists is the resolver's oracle. A dangling symlink still occupies its
// name, so the final component is not followed.
func lexists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Exists reports whether anything occupies path.
func (o *Ops) Exists(path string) bool {
	return lexists(path)
}

// ReadFile returns the whole file as text.
func (o *Ops) ReadFile(path string) (string, error) {
	if err := o.validator.ValidatePathForRead(path); err != nil {
		return "", wrap("read", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", wrap("read", path, err)
	}
	if !utf8.Valid(data) {
		return "", wrap("read", path, ErrInvalidUTF8)
	}

	return string(data), nil
}

// WriteFile replaces the file's content, creating it when missing.
func (o *Ops) WriteFile(path, content string) error {
	err := o.validator.ValidatePathForWrite(path)
	if err == nil {
		err = os.WriteFile(path, []byte(content), 0o644)
	}

	err = wrap("write", path, err)
	o.record(journal.OpWrite, path, "", err)

	return err
}

// CreateFile creates an empty file, truncating an existing one.
func (o *Ops) CreateFile(path string) error {
	err := o.validator.ValidatePathForWrite(path)
	if err == nil {
		var f *os.File
		f, err = os.Create(path)
		if err == nil {
			err = f.Close()
		}
	}

	err = wrap("create", path, err)
	o.record(journal.OpCreate, path, "", err)

	return err
}

// DeleteFile removes a file. Directories are refused.
func (o *Ops) DeleteFile(path string) error {
	err := o.validator.ValidatePathForWrite(path)
	if err == nil {
		var info os.FileInfo
		info, err = os.Lstat(path)
		switch {
		case err != nil:
		case info.IsDir():
			err = &fs.PathError{Op: "remove", Path: path, Err: ErrIsDir}
		default:
			err = os.Remove(path)
		}
	}

	err = wrap("delete", path, err)
	o.record(journal.OpDelete, path, "", err)

	return err
}

// IsFileEmpty reports whether the file has zero length.
func (o *Ops) IsFileEmpty(path string) (bool, error) {
	if err := o.validator.ValidatePathForRead(path); err != nil {
		return false, wrap("stat", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, wrap("stat", path, err)
	}
	if info.IsDir() {
		return false, wrap("stat", path, &fs.PathError{Op: "stat", Path: path, Err: ErrIsDir})
	}

	return info.Size() == 0, nil
}

// CreateDir creates a single directory. The parent must exist.
func (o *Ops) CreateDir(path string) error {
	err := o.validator.ValidatePathForWrite(path)
	if err == nil {
		err = os.Mkdir(path, 0o755)
	}

	err = wrap("mkdir", path, err)
	o.record(journal.OpMkdir, path, "", err)

	return err
}

// DeleteDir removes a directory and everything below it.
func (o *Ops) DeleteDir(path string) error {
	err := o.validator.ValidateRootMutation(path)
	if err == nil {
		var info os.FileInfo
		info, err = os.Lstat(path)
		switch {
		case err != nil:
		case !info.IsDir():
			err = &fs.PathError{Op: "remove", Path: path, Err: ErrNotDir}
		default:
			err = os.RemoveAll(path)
		}
	}

	err = wrap("rmdir", path, err)
	o.record(journal.OpRmdir, path, "", err)

	return err
}

// IsDirEmpty reports whether the directory has no entries.
func (o *Ops) IsDirEmpty(path string) (bool, error) {
	if err := o.validator.ValidatePathForRead(path); err != nil {
		return false, wrap("readdir", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return false, wrap("readdir", path, err)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, wrap("readdir", path, err)
	}

	return false, nil
}

// ListDir returns the direct children of path split into directories and
// files. Entries keep the filesystem's enumeration order; a symlink is listed
// by what it points at, and a dangling one as a file.
func (o *Ops) ListDir(path string) (DirContent, error) {
	content := DirContent{Dirs: []string{}, Files: []string{}}

	if err := o.validator.ValidatePathForRead(path); err != nil {
		return content, wrap("readdir", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return content, wrap("readdir", path, err)
	}
	defer f.Close()

	// File.ReadDir, unlike os.ReadDir, does not sort.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return content, wrap("readdir", path, err)
	}

	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		if isDirEntry(full, entry) {
			content.Dirs = append(content.Dirs, full)
		} else {
			content.Files = append(content.Files, full)
		}
	}

	return content, nil
}

func isDirEntry(full string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}

	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

func (o *Ops) record(op journal.Op, src, dst string, err error) {
	fields := []zap.Field{zap.String("op", string(op)), zap.String("path", src)}
	if dst != "" {
		fields = append(fields, zap.String("dest", dst))
	}

	entry := journal.Entry{Type: op, Source: src, Dest: dst, Success: err == nil}
	if err != nil {
		entry.Error = err.Error()
		o.logger.Warn("filesystem mutation failed", append(fields, zap.Error(err), zap.Stringer("kind", KindOf(err)))...)
	} else {
		o.logger.Debug("filesystem mutation", fields...)
	}

	if o.journal == nil {
		return
	}
	if logErr := o.journal.Log(entry); logErr != nil {
		o.logger.Warn("journal write failed", zap.Error(logErr))
	}
}
