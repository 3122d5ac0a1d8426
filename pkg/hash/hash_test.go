package hash

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var digestPattern = regexp.MustCompile(`^blake3:[0-9a-f]{64}$`)

func TestHashStringDeterministic(t *testing.T) {
	a := HashString("hello")
	b := HashString("hello")
	assert.Equal(t, a, b)
	assert.Regexp(t, digestPattern, a)
	assert.NotEqual(t, a, HashString("hello "))
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	got, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, HashString("hello"), got)
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestHashDirectorySymlinkNeutral(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("b"), 0o644))

	before, err := HashDirectory(dir)
	require.NoError(t, err)

	require.NoError(t, os.Symlink(filepath.Join(dir, "a.txt"), filepath.Join(dir, "link.txt")))

	after, err := HashDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, before, after, "adding a symlink must not change the directory hash")

	require.NoError(t, os.Remove(filepath.Join(dir, "link.txt")))
	afterRemove, err := HashDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, before, afterRemove)
}

func TestHashDirectoryChangesWhenFileAdded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	h1, err := HashDirectory(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("y"), 0o644))
	h2, err := HashDirectory(dir)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestCompositeHashNonCommutative(t *testing.T) {
	a := CompositeHash("one", "two")
	b := CompositeHash("two", "one")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, CompositeHash("one", "two"))
}
