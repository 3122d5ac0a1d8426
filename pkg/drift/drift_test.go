package drift

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironclad/converge/pkg/hash"
	"github.com/ironclad/converge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockWithFile(t *testing.T, content string) (*types.StateLock, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motd")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lock := types.NewStateLock("web1", "web1.local")
	details := types.NewDetails()
	details.SetString("path", path)
	details.SetString("content_hash", hash.HashString(content))
	lock.Resources.Set("file-motd", types.ResourceLock{
		Kind:    types.KindFile,
		Status:  types.StatusConverged,
		Details: details,
	})
	return lock, path
}

func TestDetectNoDriftWhenContentUnchanged(t *testing.T) {
	lock, _ := lockWithFile(t, "hello")
	findings, err := Detect(lock)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestDetectFindsContentDrift(t *testing.T) {
	lock, path := lockWithFile(t, "hello")
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o644))

	findings, err := Detect(lock)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "file-motd", findings[0].ResourceID)
	assert.NotEqual(t, findings[0].ExpectedHash, findings[0].ActualHash)
	assert.Equal(t, path+" content changed", findings[0].Detail)
}

func TestDetectFindsMissingFile(t *testing.T) {
	lock, path := lockWithFile(t, "hello")
	require.NoError(t, os.Remove(path))

	findings, err := Detect(lock)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "MISSING", findings[0].ActualHash)
	assert.Equal(t, path+" does not exist", findings[0].Detail)
}

func TestDetectSkipsNonFileKinds(t *testing.T) {
	lock := types.NewStateLock("web1", "web1.local")
	lock.Resources.Set("svc", types.ResourceLock{Kind: types.KindService, Status: types.StatusConverged})

	findings, err := Detect(lock)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestDetectSkipsEntriesMissingDetails(t *testing.T) {
	lock := types.NewStateLock("web1", "web1.local")
	lock.Resources.Set("file-x", types.ResourceLock{Kind: types.KindFile, Status: types.StatusConverged})

	findings, err := Detect(lock)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestDetectSkipsUnconvergedResources(t *testing.T) {
	lock, path := lockWithFile(t, "hello")
	rl, _ := lock.Resources.Get("file-motd")
	rl.Status = types.StatusFailed
	lock.Resources.Set("file-motd", rl)
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o644))

	findings, err := Detect(lock)
	require.NoError(t, err)
	assert.Empty(t, findings)
}
