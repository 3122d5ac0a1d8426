package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironclad/converge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsEmptyLock(t *testing.T) {
	s := NewFileStore(t.TempDir())
	lock, err := s.Load("web1", "web1.local")
	require.NoError(t, err)
	assert.Equal(t, "web1", lock.Machine)
	assert.Equal(t, 0, lock.Resources.Len())
}

func TestSaveThenLoadRoundTripsOrder(t *testing.T) {
	s := NewFileStore(t.TempDir())
	lock := types.NewStateLock("web1", "web1.local")
	lock.Resources.Set("zebra", types.ResourceLock{Kind: types.KindFile, Status: types.StatusConverged})
	lock.Resources.Set("apple", types.ResourceLock{Kind: types.KindFile, Status: types.StatusConverged})

	require.NoError(t, s.Save(lock))

	loaded, err := s.Load("web1", "web1.local")
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "apple"}, loaded.Resources.Keys())
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "nested", "state"))
	lock := types.NewStateLock("web1", "web1.local")

	require.NoError(t, s.Save(lock))
	_, err := os.Stat(filepath.Join(dir, "nested", "state", "web1", "state.lock.yaml"))
	assert.NoError(t, err)
}

func TestSaveLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, s.Save(types.NewStateLock("web1", "web1.local")))

	entries, err := os.ReadDir(filepath.Join(dir, "web1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.lock.yaml", entries[0].Name())
}

func TestLoadParseErrorIncludesPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web1", "state.lock.yaml"), []byte("not: [valid"), 0o644))

	s := NewFileStore(dir)
	_, err := s.Load("web1", "web1.local")
	assert.ErrorContains(t, err, "state.lock.yaml")
}
