package settings_test

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crepbook/internal/testutil"
	"crepbook/pkg/settings"
)

func decode(t *testing.T, data []byte) settings.Settings {
	t.Helper()

	var got settings.Settings
	require.NoError(t, json.Unmarshal(data, &got))
	return got
}

func TestOpen_AbsentWritesDefaults(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend(nil)
	store := settings.Open(backend, nil)

	assert.Equal(t, settings.Settings{DefaultRootPath: "", AutosaveMs: 10000}, store.Get())

	data, present := backend.Bytes()
	require.True(t, present, "defaults should be written back")
	assert.JSONEq(t, `{"default_root_path":"","autosave_ms":10000}`, string(data))
}

func TestOpen_MalformedIsReplaced(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend([]byte("not json {"))
	store := settings.Open(backend, nil)

	assert.Equal(t, settings.Default(), store.Get())

	data, _ := backend.Bytes()
	assert.Equal(t, settings.Default(), decode(t, data))
}

func TestOpen_MissingFieldsKeepDefaults(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend([]byte(`{"default_root_path":"/home/u/vault"}`))
	store := settings.Open(backend, nil)

	assert.Equal(t, "/home/u/vault", store.DefaultRootPath())
	assert.Equal(t, uint64(10000), store.AutosaveMs())
	assert.Zero(t, backend.Saves(), "a valid document is not rewritten")
}

func TestOpen_SaveFailureIsTolerated(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend(nil)
	backend.SaveErr = errors.New("read-only")

	store := settings.Open(backend, nil)
	assert.Equal(t, settings.Default(), store.Get())
}

func TestSetters(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend(nil)
	store := settings.Open(backend, nil)

	require.NoError(t, store.SetDefaultRootPath("/notes"))
	require.NoError(t, store.SetAutosaveMs(2500))

	assert.Equal(t, "/notes", store.DefaultRootPath())
	assert.Equal(t, uint64(2500), store.AutosaveMs())

	data, _ := backend.Bytes()
	assert.Equal(t, settings.Settings{DefaultRootPath: "/notes", AutosaveMs: 2500}, decode(t, data))
	assert.Contains(t, string(data), "\n  \"autosave_ms\"", "document is indented")
}

func TestUpdate_RollsBackOnSaveFailure(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend([]byte(`{"default_root_path":"/a","autosave_ms":500}`))
	store := settings.Open(backend, nil)

	backend.SaveErr = errors.New("disk full")
	err := store.SetDefaultRootPath("/b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "/a", store.DefaultRootPath())
}

func TestReset(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend(nil)
	store := settings.Open(backend, nil)
	require.NoError(t, store.SetAutosaveMs(1))

	require.NoError(t, store.Reset())

	assert.Equal(t, settings.Default(), store.Get())
	_, present := backend.Bytes()
	assert.False(t, present, "reset removes the document without rewriting it")

	require.NoError(t, store.Reset(), "resetting twice is fine")
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	backend := settings.NewMemoryBackend(nil)
	store := settings.Open(backend, nil)

	var wg sync.WaitGroup
	for i := 1; i <= 32; i++ {
		wg.Add(1)
		go func(ms uint64) {
			defer wg.Done()
			assert.NoError(t, store.SetAutosaveMs(ms))
		}(uint64(i))
	}
	wg.Wait()

	data, _ := backend.Bytes()
	assert.Equal(t, store.Get(), decode(t, data), "the last save matches memory")
}

func TestFileBackend_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config", ".crepbook.settings.json")
	backend := settings.NewFileBackend(path, "")

	store := settings.Open(backend, nil)
	require.NoError(t, store.SetDefaultRootPath("/vault"))

	reopened := settings.Open(settings.NewFileBackend(path, ""), nil)
	assert.Equal(t, "/vault", reopened.DefaultRootPath())
	assert.Equal(t, uint64(10000), reopened.AutosaveMs())

	assert.False(t, testutil.Exists(t, path+".lock"), "lock file is released")
}

func TestFileBackend_Remove(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	testutil.CreateFile(t, path, `{"autosave_ms":42}`)
	backend := settings.NewFileBackend(path, filepath.Join(t.TempDir(), "settings.lock"))

	data, err := backend.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `{"autosave_ms":42}`, string(data))

	require.NoError(t, backend.Remove())
	assert.False(t, testutil.Exists(t, path))
	require.NoError(t, backend.Remove())

	_, err = backend.Load()
	require.Error(t, err)
}
