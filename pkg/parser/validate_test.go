package parser

import (
	"testing"

	"github.com/ironclad/converge/pkg/types"
	"github.com/stretchr/testify/assert"
)

func validConfig() *types.Configuration {
	machines := types.NewOrderedMap[types.Machine]()
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("pkg-curl", types.Resource{
		Type:     types.KindPackage,
		Machine:  types.MachineRef{Names: []string{types.Localhost}},
		Packages: []string{"curl"},
		Provider: "apt",
	})
	return &types.Configuration{
		Version:   types.SchemaVersion,
		Name:      "example",
		Machines:  machines,
		Resources: resources,
	}
}

func TestValidateAcceptsLocalhostWithEmptyMachines(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, Validate(cfg))
}

func TestValidateRejectsWrongVersion(t *testing.T) {
	cfg := validConfig()
	cfg.Version = "2.0"
	errs := Validate(cfg)
	assert.Contains(t, errs[0], "unsupported schema version")
}

func TestValidateRejectsEmptyName(t *testing.T) {
	cfg := validConfig()
	cfg.Name = ""
	errs := Validate(cfg)
	found := false
	for _, e := range errs {
		if e == "configuration name must not be empty" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateRejectsUnknownMachine(t *testing.T) {
	cfg := validConfig()
	r, _ := cfg.Resources.Get("pkg-curl")
	r.Machine = types.MachineRef{Names: []string{"ghost"}}
	cfg.Resources.Set("pkg-curl", r)

	errs := Validate(cfg)
	assert.Contains(t, errs, `resource "pkg-curl" references unknown machine "ghost"`)
}

func TestValidateRejectsSelfDependency(t *testing.T) {
	cfg := validConfig()
	r, _ := cfg.Resources.Get("pkg-curl")
	r.DependsOn = []string{"pkg-curl"}
	cfg.Resources.Set("pkg-curl", r)

	errs := Validate(cfg)
	assert.Contains(t, errs, `resource "pkg-curl" depends on itself`)
}

func TestValidateRejectsUnknownDependency(t *testing.T) {
	cfg := validConfig()
	r, _ := cfg.Resources.Get("pkg-curl")
	r.DependsOn = []string{"ghost"}
	cfg.Resources.Set("pkg-curl", r)

	errs := Validate(cfg)
	assert.Contains(t, errs, `resource "pkg-curl" depends on unknown resource "ghost"`)
}

func TestValidateCollectsAllDiagnostics(t *testing.T) {
	cfg := validConfig()
	cfg.Version = "bogus"
	cfg.Name = ""
	r, _ := cfg.Resources.Get("pkg-curl")
	r.DependsOn = []string{"ghost"}
	cfg.Resources.Set("pkg-curl", r)

	errs := Validate(cfg)
	// version, name, and dependency errors should all be present at once.
	assert.Len(t, errs, 3)
}

func TestValidateRequiresPackageFields(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("bad-pkg", types.Resource{Type: types.KindPackage})
	cfg := &types.Configuration{
		Version:   types.SchemaVersion,
		Name:      "example",
		Machines:  types.NewOrderedMap[types.Machine](),
		Resources: resources,
	}

	errs := Validate(cfg)
	assert.Contains(t, errs, `resource "bad-pkg" (package) requires a non-empty packages list`)
	assert.Contains(t, errs, `resource "bad-pkg" (package) requires a provider`)
}

func TestValidateRequiresFilePath(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("bad-file", types.Resource{Type: types.KindFile})
	cfg := &types.Configuration{
		Version:   types.SchemaVersion,
		Name:      "example",
		Machines:  types.NewOrderedMap[types.Machine](),
		Resources: resources,
	}

	errs := Validate(cfg)
	assert.Contains(t, errs, `resource "bad-file" (file) requires a path`)
}

func TestValidateRequiresServiceName(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("bad-svc", types.Resource{Type: types.KindService})
	cfg := &types.Configuration{
		Version:   types.SchemaVersion,
		Name:      "example",
		Machines:  types.NewOrderedMap[types.Machine](),
		Resources: resources,
	}

	errs := Validate(cfg)
	assert.Contains(t, errs, `resource "bad-svc" (service) requires a name`)
}

func TestValidateRequiresMountSourceOrPath(t *testing.T) {
	resources := types.NewOrderedMap[types.Resource]()
	resources.Set("bad-mount", types.Resource{Type: types.KindMount})
	cfg := &types.Configuration{
		Version:   types.SchemaVersion,
		Name:      "example",
		Machines:  types.NewOrderedMap[types.Machine](),
		Resources: resources,
	}

	errs := Validate(cfg)
	assert.Contains(t, errs, `resource "bad-mount" (mount) requires a source or path`)
}
