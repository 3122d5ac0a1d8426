package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ironclad/converge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendWritesOneJSONObjectPerLine(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	ts := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, w.Append("web1", types.NewEvent(ts, types.EventApplyStarted, map[string]interface{}{"run_id": "r-1"})))
	require.NoError(t, w.Append("web1", types.NewEvent(ts, types.EventApplyCompleted, nil)))

	f, err := os.Open(filepath.Join(dir, "web1", "events.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "apply_started", first["event"])
	assert.Equal(t, "2026-03-01T10:00:00Z", first["ts"])
	assert.Equal(t, "r-1", first["run_id"])
}

func TestAppendDoesNotTruncateExisting(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	ts := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Append("web1", types.NewEvent(ts, types.EventResourceStarted, nil)))
	}

	data, err := os.ReadFile(filepath.Join(dir, "web1", "events.jsonl"))
	require.NoError(t, err)
	lineCount := 0
	for _, b := range data {
		if b == '\n' {
			lineCount++
		}
	}
	assert.Equal(t, 3, lineCount)
}

func TestNewRunIDFormat(t *testing.T) {
	id := NewRunID(0x1234_ABCDEF123456)
	assert.Equal(t, "r-abcdef123456", id)
}
