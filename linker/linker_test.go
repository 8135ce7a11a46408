package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bashrc.preprocessed")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))
	target := filepath.Join(dir, ".bashrc")

	require.NoError(t, Link(source, target))

	resolved, err := os.Readlink(target)
	require.NoError(t, err)
	require.Equal(t, source, resolved)
}

func TestLinkReplacesStaleSymlink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bashrc.preprocessed")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))
	target := filepath.Join(dir, ".bashrc")
	require.NoError(t, os.Symlink(filepath.Join(dir, "somewhere-else"), target))

	require.NoError(t, Link(source, target))

	resolved, err := os.Readlink(target)
	require.NoError(t, err)
	require.Equal(t, source, resolved)
}

func TestLinkRefusesRegularFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bashrc.preprocessed")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))
	target := filepath.Join(dir, ".bashrc")
	require.NoError(t, os.WriteFile(target, []byte("precious"), 0o644))

	require.ErrorIs(t, Link(source, target), ErrTargetExists)

	// the existing file is untouched
	kept, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "precious", string(kept))
}

func TestLinkMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Link(filepath.Join(dir, "missing"), filepath.Join(dir, ".bashrc"))
	require.ErrorIs(t, err, ErrLinkFailed)
}
