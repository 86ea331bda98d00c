package safepath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crepbook/internal/testutil"
	"crepbook/pkg/safepath"
)

func TestNew(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	v, err := safepath.New(root)
	require.NoError(t, err)
	assert.NotEmpty(t, v.Root())

	_, err = safepath.New(filepath.Join(root, "missing"))
	require.ErrorIs(t, err, safepath.ErrInvalidRoot)

	file := filepath.Join(root, "file.md")
	testutil.CreateFile(t, file, "x")
	_, err = safepath.New(file)
	require.ErrorIs(t, err, safepath.ErrInvalidRoot)
}

func TestContains(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	vault := filepath.Join(base, "vault")
	testutil.CreateDir(t, vault)

	v, err := safepath.New(vault)
	require.NoError(t, err)

	assert.True(t, v.Contains(vault))
	assert.True(t, v.Contains(filepath.Join(vault, "notes", "a.md")))
	assert.False(t, v.Contains(base))
	assert.False(t, v.Contains(filepath.Join(vault, "..", "secret.md")))
	assert.False(t, v.Contains(vault+"-sibling"))
}

func TestValidatePathForRead_SymlinkEscape(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	vault := filepath.Join(base, "vault")
	outside := filepath.Join(base, "outside.md")
	testutil.CreateDir(t, vault)
	testutil.CreateFile(t, outside, "secret")

	link := filepath.Join(vault, "link.md")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	inside := filepath.Join(vault, "inside.md")
	testutil.CreateFile(t, inside, "ok")
	innerLink := filepath.Join(vault, "inner-link.md")
	require.NoError(t, os.Symlink(inside, innerLink))

	v, err := safepath.New(vault)
	require.NoError(t, err)

	require.ErrorIs(t, v.ValidatePathForRead(link), safepath.ErrSymlinkEscape)
	require.NoError(t, v.ValidatePathForRead(innerLink))
	require.NoError(t, v.ValidatePathForRead(filepath.Join(vault, "missing.md")))
}

func TestValidatePathForWrite_ThroughSymlinkedDir(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	vault := filepath.Join(base, "vault")
	elsewhere := filepath.Join(base, "elsewhere")
	testutil.CreateDir(t, vault)
	testutil.CreateDir(t, elsewhere)

	linkDir := filepath.Join(vault, "escape")
	if err := os.Symlink(elsewhere, linkDir); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	v, err := safepath.New(vault)
	require.NoError(t, err)

	require.ErrorIs(t, v.ValidatePathForWrite(filepath.Join(linkDir, "new.md")), safepath.ErrSymlinkEscape)
	require.NoError(t, v.ValidatePathForWrite(filepath.Join(vault, "new", "deep.md")))
}

func TestValidateRootMutation(t *testing.T) {
	t.Parallel()

	vault := t.TempDir()
	v, err := safepath.New(vault)
	require.NoError(t, err)

	require.ErrorIs(t, v.ValidateRootMutation(vault), safepath.ErrRootMutation)
	require.NoError(t, v.ValidateRootMutation(filepath.Join(vault, "child")))
}

func TestNilValidatorAcceptsEverything(t *testing.T) {
	t.Parallel()

	var v *safepath.Validator

	assert.Empty(t, v.Root())
	assert.True(t, v.Contains("/anywhere"))
	require.NoError(t, v.ValidatePathForRead("/anywhere"))
	require.NoError(t, v.ValidatePathForWrite("/anywhere"))
	require.NoError(t, v.ValidateRootMutation("/"))
}
