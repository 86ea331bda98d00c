package usecase

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crepbook/internal/testutil"
	"crepbook/pkg/fsops"
	"crepbook/pkg/journal"
	"crepbook/pkg/safepath"
	"crepbook/pkg/sanitizer"
	"crepbook/pkg/settings"
)

func newService(t *testing.T, opts Options) *Service {
	t.Helper()

	if opts.ConfigDir == "" {
		opts.ConfigDir = filepath.Join(t.TempDir(), "config")
	}
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestNew_WritesDefaultSettings(t *testing.T) {
	t.Parallel()

	configDir := filepath.Join(t.TempDir(), "config")
	s := newService(t, Options{ConfigDir: configDir})

	assert.Equal(t, configDir, s.Meta().Root())
	assert.Equal(t, uint64(10000), s.Settings().AutosaveMs())
	assert.JSONEq(t,
		`{"default_root_path":"","autosave_ms":10000}`,
		testutil.ReadFile(t, filepath.Join(configDir, ".crepbook.settings.json")))
}

func TestNew_InvalidRoot(t *testing.T) {
	t.Parallel()

	_, err := New(Options{
		ConfigDir: t.TempDir(),
		Root:      filepath.Join(t.TempDir(), "missing"),
	})
	require.Error(t, err)
}

func TestNew_SettingsBackendOverride(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend([]byte(`{"default_root_path":"/vault","autosave_ms":750}`))
	s := newService(t, Options{SettingsBackend: backend})

	assert.Equal(t, "/vault", s.Settings().DefaultRootPath())
	assert.False(t, testutil.Exists(t, s.Meta().SettingsPath()))
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	vault := t.TempDir()
	testutil.CreateFile(t, filepath.Join(vault, "todo.md"), "")
	testutil.CreateDir(t, filepath.Join(vault, "ideas"))
	s := newService(t, Options{Root: vault})

	file, err := s.Create(CreateRequest{Dir: vault, Name: "  todo.md "})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(vault, "todo1.md"), file.Path)
	assert.True(t, file.Renumbered())
	assert.True(t, testutil.Exists(t, file.Path))

	dir, err := s.Create(CreateRequest{Dir: vault, Name: "ideas", IsDir: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(vault, "ideas1"), dir.Path)

	fresh, err := s.Create(CreateRequest{Dir: vault, Name: "new.md"})
	require.NoError(t, err)
	assert.False(t, fresh.Renumbered())
}

func TestService_CreateRejectsBadNames(t *testing.T) {
	t.Parallel()

	s := newService(t, Options{})
	dir := t.TempDir()

	_, err := s.Create(CreateRequest{Dir: dir, Name: "   "})
	require.ErrorIs(t, err, sanitizer.ErrEmptyName)

	_, err = s.Create(CreateRequest{Dir: dir, Name: "a/b"})
	require.ErrorIs(t, err, sanitizer.ErrSeparator)
}

func TestService_CreateOutsideRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	vault := filepath.Join(base, "vault")
	testutil.CreateDir(t, vault)
	s := newService(t, Options{Root: vault})

	_, err := s.Create(CreateRequest{Dir: base, Name: "leak.md"})
	require.ErrorIs(t, err, safepath.ErrPathEscape)
	assert.Equal(t, fsops.KindPermission, fsops.KindOf(err))
	assert.False(t, testutil.Exists(t, filepath.Join(base, "leak.md")))
}

func TestService_RenameDir(t *testing.T) {
	t.Parallel()

	vault := t.TempDir()
	testutil.CreateDir(t, filepath.Join(vault, "inbox"))
	testutil.CreateDir(t, filepath.Join(vault, "archive"))
	s := newService(t, Options{})

	result := s.RenameDir(RenameRequest{
		OldPath: filepath.Join(vault, "inbox"),
		NewPath: filepath.Join(vault, "archive"),
	})
	assert.True(t, result.OK)
	assert.Equal(t, filepath.Join(vault, "archive1"), result.Path)

	result = s.RenameDir(RenameRequest{
		OldPath: filepath.Join(vault, "inbox"),
		NewPath: filepath.Join(vault, "elsewhere"),
	})
	assert.False(t, result.OK)
	assert.Equal(t, "not-found", result.Kind)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Path)
}

func TestService_RenameFile(t *testing.T) {
	t.Parallel()

	vault := t.TempDir()
	testutil.CreateFile(t, filepath.Join(vault, "a.md"), "a")
	s := newService(t, Options{})

	path, err := s.RenameFile(RenameRequest{
		OldPath: filepath.Join(vault, "a.md"),
		NewPath: filepath.Join(vault, "b.md"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(vault, "b.md"), path)
}

func TestService_History(t *testing.T) {
	t.Parallel()

	vault := t.TempDir()
	s := newService(t, Options{Journal: true})

	require.NoError(t, s.Ops().CreateDir(filepath.Join(vault, "one")))
	require.Error(t, s.Ops().DeleteFile(filepath.Join(vault, "ghost.md")))
	require.NoError(t, s.Ops().CreateFile(filepath.Join(vault, "two.md")))

	all, err := s.History(HistoryRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, journal.OpCreate, all[0].Type, "newest first")

	limited, err := s.History(HistoryRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	failed, err := s.History(HistoryRequest{FailuresOnly: true})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, journal.OpDelete, failed[0].Type)
}

func TestService_HistoryWithoutJournal(t *testing.T) {
	t.Parallel()

	s := newService(t, Options{})
	_, err := s.History(HistoryRequest{})
	require.ErrorIs(t, err, ErrJournalDisabled)
}
