package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "file.txt")
	CreateFile(t, path, "hello")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestCreateDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	CreateDir(t, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateTree(t *testing.T) {
	root := t.TempDir()
	CreateTree(t, root, map[string]string{
		"notes/":        "",
		"notes/todo.md": "- [ ] write",
		"journal.md":    "today",
	})

	info, err := os.Stat(filepath.Join(root, "notes"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Equal(t, "- [ ] write", ReadFile(t, filepath.Join(root, "notes", "todo.md")))
	assert.Equal(t, "today", ReadFile(t, filepath.Join(root, "journal.md")))
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	CreateFile(t, filepath.Join(root, "present.txt"), "")

	assert.True(t, Exists(t, filepath.Join(root, "present.txt")))
	assert.False(t, Exists(t, filepath.Join(root, "absent.txt")))
}
