package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesApplicationDirectory(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "config", AppName)

	d, err := Init(root)
	require.NoError(t, err)
	assert.Equal(t, root, d.Root())

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInit_Idempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	d1, err := Init(root)
	require.NoError(t, err)

	d2, err := Init(root)
	require.NoError(t, err)

	assert.Equal(t, d1.Root(), d2.Root(), "repeated Init should return same root")
}

func TestInit_RootIsFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := Init(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create application directory")
}

func TestDir_Paths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	d, err := Init(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".crepbook.settings.json"), d.SettingsPath())
	assert.Equal(t, filepath.Join(root, "journal.jsonl"), d.JournalPath())
	assert.Equal(t, filepath.Join(root, "settings.lock"), d.LockPath())
}

func TestDir_HasJournal(t *testing.T) {
	t.Parallel()

	d, err := Init(t.TempDir())
	require.NoError(t, err)
	assert.False(t, d.HasJournal())

	require.NoError(t, os.WriteFile(d.JournalPath(), nil, 0o600))
	assert.True(t, d.HasJournal())
}
