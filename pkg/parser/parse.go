package parser

import (
	"fmt"
	"os"

	"github.com/ironclad/converge/pkg/types"
	"gopkg.in/yaml.v3"
)

// Parse decodes a configuration document from data.
func Parse(data []byte) (*types.Configuration, error) {
	cfg := &types.Configuration{
		Machines:  types.NewOrderedMap[types.Machine](),
		Resources: types.NewOrderedMap[types.Resource](),
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if cfg.Machines == nil {
		cfg.Machines = types.NewOrderedMap[types.Machine]()
	}
	if cfg.Resources == nil {
		cfg.Resources = types.NewOrderedMap[types.Resource]()
	}
	return cfg, nil
}

// ParseFile reads path and parses it.
func ParseFile(path string) (*types.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration %q: %w", path, err)
	}
	return Parse(data)
}
