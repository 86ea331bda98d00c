package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Store is the in-memory copy of the settings, written through to a Backend
// on every change. All methods are safe for concurrent use; each change is
// saved before the lock is released.
type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *zap.Logger
	current Settings
}

// Open loads settings from backend. Missing or unreadable content yields the
// defaults, which are then written back; a failure to write them is logged
// and otherwise ignored. Fields absent from a valid document keep their
// defaults.
func Open(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		backend: backend,
		logger:  logger.Named("settings"),
		current: Default(),
	}

	loaded, err := s.load()
	if err == nil {
		s.current = loaded
		return s
	}

	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no settings stored, using defaults")
	} else {
		s.logger.Warn("settings unreadable, using defaults", zap.Error(err))
	}

	if err := s.save(s.current); err != nil {
		s.logger.Warn("failed to write default settings", zap.Error(err))
	}

	return s
}

func (s *Store) load() (Settings, error) {
	data, err := s.backend.Load()
	if err != nil {
		return Settings{}, err
	}

	loaded := Default()
	if err := sonic.Unmarshal(data, &loaded); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	return loaded, nil
}

func (s *Store) save(next Settings) error {
	data, err := sonic.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.backend.Save(data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// DefaultRootPath returns the stored vault path.
func (s *Store) DefaultRootPath() string {
	return s.Get().DefaultRootPath
}

// SetDefaultRootPath stores the vault path.
func (s *Store) SetDefaultRootPath(path string) error {
	return s.Update(func(st *Settings) {
		st.DefaultRootPath = path
	})
}

// AutosaveMs returns the autosave interval in milliseconds.
func (s *Store) AutosaveMs() uint64 {
	return s.Get().AutosaveMs
}

// SetAutosaveMs stores the autosave interval in milliseconds.
func (s *Store) SetAutosaveMs(ms uint64) error {
	return s.Update(func(st *Settings) {
		st.AutosaveMs = ms
	})
}

// Update applies fn to a copy of the settings and saves the result. When the
// save fails the in-memory settings are left unchanged.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fn(&next)

	if err := s.save(next); err != nil {
		s.logger.Warn("settings update not saved", zap.Error(err))
		return err
	}

	s.current = next
	s.logger.Debug("settings saved",
		zap.String("default_root_path", next.DefaultRootPath),
		zap.Uint64("autosave_ms", next.AutosaveMs))

	return nil
}

// Reset removes the stored document and restores the defaults in memory.
// The defaults are not written until the next change.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Remove(); err != nil {
		return err
	}

	s.current = Default()
	return nil
}
