package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironclad/converge/pkg/types"
	"gopkg.in/yaml.v3"
)

// FileStore persists a machine's StateLock under a state directory
// root, one YAML file per machine.
type FileStore struct {
	Root string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Root: dir}
}

func (s *FileStore) lockPath(machine string) string {
	return filepath.Join(s.Root, machine, "state.lock.yaml")
}

// Load returns the persisted lock for machine, or a fresh empty lock
// if none exists yet. Parse errors are reported with the file path.
func (s *FileStore) Load(machine, hostname string) (*types.StateLock, error) {
	path := s.lockPath(machine)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return types.NewStateLock(machine, hostname), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load lock %q: %w", path, err)
	}

	lock := types.NewStateLock(machine, hostname)
	if err := yaml.Unmarshal(data, lock); err != nil {
		return nil, fmt.Errorf("parse lock %q: %w", path, err)
	}
	if lock.Resources == nil {
		lock.Resources = types.NewOrderedMap[types.ResourceLock]()
	}
	return lock, nil
}

// Save writes lock to its path atomically: serialize, write to
// "<path>.tmp<pid>", then rename into place. A crash before the rename
// leaves the previous file intact.
func (s *FileStore) Save(lock *types.StateLock) error {
	path := s.lockPath(lock.Machine)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state directory for %q: %w", lock.Machine, err)
	}

	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("serialize lock for %q: %w", lock.Machine, err)
	}

	tmpPath := fmt.Sprintf("%s.tmp%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write lock temp file %q: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename lock into place %q: %w", path, err)
	}

	return nil
}
