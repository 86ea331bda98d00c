// Package usecase wires the filesystem layer, the settings store and the
// mutation journal into the operations exposed by the CLI and the IPC bridge.
package usecase

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"crepbook/pkg/fsops"
	"crepbook/pkg/journal"
	"crepbook/pkg/metadata"
	"crepbook/pkg/safepath"
	"crepbook/pkg/sanitizer"
	"crepbook/pkg/settings"
)

// Options configures a Service.
type Options struct {
	// ConfigDir overrides the per-user application directory.
	ConfigDir string
	// Root confines filesystem operations to a vault directory.
	Root string
	// Journal records every mutation in the application directory.
	Journal bool
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// SettingsBackend replaces the settings file, mainly for tests.
	SettingsBackend settings.Backend
}

// Service holds the long-lived handles shared by every command. It is safe
// for concurrent use.
type Service struct {
	meta     *metadata.Dir
	ops      *fsops.Ops
	settings *settings.Store
	journal  *journal.Writer
	logger   *zap.Logger
}

// New opens the application directory, the settings store and, when
// requested, the journal.
func New(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	meta, err := metadata.Init(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open application directory: %w", err)
	}

	var writer *journal.Writer
	fsOpts := fsops.Options{Root: opts.Root, Logger: logger}
	if opts.Journal {
		writer, err = journal.NewWriter(meta.JournalPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		fsOpts.Journal = writer
	}

	ops, err := fsops.New(fsOpts)
	if err != nil {
		if writer != nil {
			writer.Close()
		}
		return nil, err
	}

	backend := opts.SettingsBackend
	if backend == nil {
		backend = settings.NewFileBackend(meta.SettingsPath(), meta.LockPath())
	}

	return &Service{
		meta:     meta,
		ops:      ops,
		settings: settings.Open(backend, logger),
		journal:  writer,
		logger:   logger,
	}, nil
}

// Close releases the journal.
func (s *Service) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}

// Ops returns the filesystem layer.
func (s *Service) Ops() *fsops.Ops {
	return s.ops
}

// Settings returns the settings store.
func (s *Service) Settings() *settings.Store {
	return s.settings
}

// Meta returns the application directory.
func (s *Service) Meta() *metadata.Dir {
	return s.meta
}

// RenameRequest names a rename source and its desired destination.
type RenameRequest struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// RenameResult reports a rename without returning an error value. Path is
// the destination actually used; on failure Kind classifies the error.
type RenameResult struct {
	OK    bool   `json:"ok" yaml:"ok"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// RenameFile renames a file and returns the path it ended up at.
func (s *Service) RenameFile(req RenameRequest) (string, error) {
	return s.ops.RenameFile(req.OldPath, req.NewPath)
}

// RenameDir renames a directory and reports the outcome as a result.
func (s *Service) RenameDir(req RenameRequest) RenameResult {
	path, err := s.ops.RenameDir(req.OldPath, req.NewPath)
	if err != nil {
		return RenameResult{OK: false, Error: err.Error(), Kind: fsops.KindOf(err).String()}
	}
	return RenameResult{OK: true, Path: path}
}

// CreateRequest asks for a new entry named Name inside Dir.
type CreateRequest struct {
	Dir   string `json:"dir"`
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
}

// CreateExecution reports where a new entry was created.
type CreateExecution struct {
	Requested string `json:"requested" yaml:"requested"`
	Path      string `json:"path" yaml:"path"`
	IsDir     bool   `json:"is_dir" yaml:"is_dir"`
}

// Renumbered reports whether the entry was created under another name.
func (e CreateExecution) Renumbered() bool {
	return e.Requested != e.Path
}

// Create validates the entry name, picks the next free path for it and
// creates an empty file or directory there.
func (s *Service) Create(req CreateRequest) (CreateExecution, error) {
	if !s.ops.Contains(req.Dir) {
		return CreateExecution{}, fmt.Errorf("%w: %s", safepath.ErrPathEscape, req.Dir)
	}

	requested, err := sanitizer.JoinEntry(req.Dir, req.Name)
	if err != nil {
		return CreateExecution{}, err
	}

	exec := CreateExecution{Requested: requested, IsDir: req.IsDir}
	if req.IsDir {
		exec.Path = s.ops.NextAvailableDirPath(requested)
		err = s.ops.CreateDir(exec.Path)
	} else {
		exec.Path = s.ops.NextAvailableFilePath(requested)
		err = s.ops.CreateFile(exec.Path)
	}
	if err != nil {
		return CreateExecution{}, err
	}

	return exec, nil
}

// ErrJournalDisabled is returned by History when no journal has been
// written.
var ErrJournalDisabled = errors.New("no journal recorded; enable it with --journal or CREPBOOK_JOURNAL=true")

// HistoryRequest selects journal entries.
type HistoryRequest struct {
	Limit        int
	FailuresOnly bool
}

// History returns journal entries, newest first.
func (s *Service) History(req HistoryRequest) ([]journal.Entry, error) {
	if !s.meta.HasJournal() {
		return nil, ErrJournalDisabled
	}

	reader := journal.NewReader(s.meta.JournalPath())
	if !req.FailuresOnly {
		return reader.Tail(req.Limit)
	}

	failed, err := reader.Failures()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(failed)-1; i < j; i, j = i+1, j-1 {
		failed[i], failed[j] = failed[j], failed[i]
	}
	if req.Limit > 0 && len(failed) > req.Limit {
		failed = failed[:req.Limit]
	}

	return failed, nil
}
