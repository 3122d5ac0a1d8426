package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// recipeSuffix is the file extension a library scans for.
const recipeSuffix = ".recipe.yaml"

// Library indexes recipes loaded from a directory by id.
type Library struct {
	byID map[string]*Recipe
	ids  []string
}

// LoadLibrary scans dir (non-recursively) for *.recipe.yaml files and
// parses each one into a Recipe, indexed by its declared id. A recipe
// file whose id collides with one already loaded is an error.
func LoadLibrary(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read recipe directory %q: %w", dir, err)
	}

	lib := &Library{byID: make(map[string]*Recipe)}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recipeSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read recipe %q: %w", path, err)
		}
		r := &Recipe{}
		if err := yaml.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("parse recipe %q: %w", path, err)
		}
		if r.ID == "" {
			return nil, fmt.Errorf("recipe %q has no id", path)
		}
		if _, exists := lib.byID[r.ID]; exists {
			return nil, fmt.Errorf("duplicate recipe id %q (%q)", r.ID, path)
		}
		lib.byID[r.ID] = r
		lib.ids = append(lib.ids, r.ID)
	}

	return lib, nil
}

// IDs returns every loaded recipe id, sorted ascending.
func (l *Library) IDs() []string {
	ids := make([]string, len(l.ids))
	copy(ids, l.ids)
	sort.Strings(ids)
	return ids
}

// Get returns the recipe with the given id, if loaded.
func (l *Library) Get(id string) (*Recipe, bool) {
	r, ok := l.byID[id]
	return r, ok
}
