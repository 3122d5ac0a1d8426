package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ironclad/converge/pkg/types"
)

// Writer appends provenance events under a state directory root, one
// events.jsonl file per machine.
type Writer struct {
	Root string
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{Root: dir}
}

func (w *Writer) path(machine string) string {
	return filepath.Join(w.Root, machine, "events.jsonl")
}

// Append writes ev as one JSON object, creating parent directories as
// needed and opening the file append-only. It never reads or
// truncates the existing log.
func (w *Writer) Append(machine string, ev types.Event) error {
	path := w.path(machine)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create event log directory for %q: %w", machine, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open event log %q: %w", path, err)
	}
	defer f.Close()

	record := make(map[string]interface{}, len(ev.Fields)+2)
	for k, v := range ev.Fields {
		record[k] = v
	}
	record["ts"] = FormatISO8601UTC(ev.Timestamp.Unix())
	record["event"] = string(ev.Type)

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	line = append(line, '\n')

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append event log %q: %w", path, err)
	}
	return nil
}

// NewRunID generates a run identifier from the low 48 bits of a
// nanoseconds-since-epoch timestamp, formatted as "r-%012x".
func NewRunID(nanosSinceEpoch int64) string {
	const mask = uint64(1)<<48 - 1
	return fmt.Sprintf("r-%012x", uint64(nanosSinceEpoch)&mask)
}

// Now is a seam for callers that want a fresh run id from wall-clock
// time.
func Now() int64 {
	return time.Now().UnixNano()
}
