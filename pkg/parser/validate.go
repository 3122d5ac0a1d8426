package parser

import (
	"fmt"

	"github.com/ironclad/converge/pkg/types"
)

// Validate checks cfg against the structural and referential
// invariants of the data model and returns every diagnostic found; an
// empty result means cfg is valid. Validation never stops at the
// first error.
func Validate(cfg *types.Configuration) []string {
	var errs []string

	if cfg.Version != types.SchemaVersion {
		errs = append(errs, fmt.Sprintf("unsupported schema version %q, expected %q", cfg.Version, types.SchemaVersion))
	}
	if cfg.Name == "" {
		errs = append(errs, "configuration name must not be empty")
	}

	if cfg.Resources != nil {
		for _, id := range cfg.Resources.Keys() {
			r, _ := cfg.Resources.Get(id)
			errs = append(errs, validateMachineRefs(cfg, id, r)...)
			errs = append(errs, validateDependsOn(cfg, id, r)...)
			errs = append(errs, validateKindFields(id, r)...)
		}
	}

	return errs
}

func validateMachineRefs(cfg *types.Configuration, id string, r types.Resource) []string {
	var errs []string
	for _, name := range r.Machine.Names {
		if name == types.Localhost {
			continue
		}
		if cfg.Machines == nil || !cfg.Machines.Has(name) {
			errs = append(errs, fmt.Sprintf("resource %q references unknown machine %q", id, name))
		}
	}
	return errs
}

func validateDependsOn(cfg *types.Configuration, id string, r types.Resource) []string {
	var errs []string
	for _, dep := range r.DependsOn {
		if dep == id {
			errs = append(errs, fmt.Sprintf("resource %q depends on itself", id))
			continue
		}
		if cfg.Resources == nil || !cfg.Resources.Has(dep) {
			errs = append(errs, fmt.Sprintf("resource %q depends on unknown resource %q", id, dep))
		}
	}
	return errs
}

func validateKindFields(id string, r types.Resource) []string {
	var errs []string
	switch r.Type {
	case types.KindPackage:
		if len(r.Packages) == 0 {
			errs = append(errs, fmt.Sprintf("resource %q (package) requires a non-empty packages list", id))
		}
		if r.Provider == "" {
			errs = append(errs, fmt.Sprintf("resource %q (package) requires a provider", id))
		}
	case types.KindFile:
		if r.Path == "" {
			errs = append(errs, fmt.Sprintf("resource %q (file) requires a path", id))
		}
	case types.KindService:
		if r.Name == "" {
			errs = append(errs, fmt.Sprintf("resource %q (service) requires a name", id))
		}
	case types.KindMount:
		if r.Source == "" && r.Path == "" {
			errs = append(errs, fmt.Sprintf("resource %q (mount) requires a source or path", id))
		}
	}
	return errs
}
