package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only configuration schema version this module
// accepts (invariant 1 in the data model).
const SchemaVersion = "1.0"

// Localhost is the reserved machine name that is always accepted even
// when absent from Configuration.Machines.
const Localhost = "localhost"

// Configuration is the root document an operator writes: machines,
// typed resources, their interdependencies, and an execution policy.
type Configuration struct {
	Version     string                    `yaml:"version"`
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description,omitempty"`
	Params      map[string]interface{}    `yaml:"params,omitempty"`
	Machines    *OrderedMap[Machine]      `yaml:"machines"`
	Resources   *OrderedMap[Resource]     `yaml:"resources"`
	Policy      Policy                    `yaml:"policy"`
}

// Machine is a target host the executor can drive resources against.
type Machine struct {
	Hostname  string            `yaml:"hostname"`
	Addr      string            `yaml:"addr"`
	User      string            `yaml:"user,omitempty"`
	Arch      string            `yaml:"arch,omitempty"`
	SSHKey    string            `yaml:"ssh_key,omitempty"`
	Roles     []string          `yaml:"roles,omitempty"`
}

// DefaultUser and DefaultArch are applied when a Machine omits them.
const (
	DefaultUser = "root"
	DefaultArch = "x86_64"
)

// WithDefaults returns m with the defaulted fields filled in.
func (m Machine) WithDefaults() Machine {
	if m.User == "" {
		m.User = DefaultUser
	}
	if m.Arch == "" {
		m.Arch = DefaultArch
	}
	return m
}

// LocalhostMachine synthesizes the record used when a resource targets
// "localhost" and the config doesn't define it.
func LocalhostMachine() Machine {
	return Machine{
		Hostname: "localhost",
		Addr:     "127.0.0.1",
		User:     DefaultUser,
		Arch:     DefaultArch,
	}
}

// ResourceKind is the closed set of resource kinds the core models.
type ResourceKind string

const (
	KindPackage ResourceKind = "package"
	KindFile    ResourceKind = "file"
	KindService ResourceKind = "service"
	KindMount   ResourceKind = "mount"
	KindUser    ResourceKind = "user"
	KindDocker  ResourceKind = "docker"
	KindPepita  ResourceKind = "pepita"
	KindNetwork ResourceKind = "network"
	KindCron    ResourceKind = "cron"
)

// AllKinds lists every resource kind in the closed set above.
var AllKinds = []ResourceKind{
	KindPackage, KindFile, KindService, KindMount,
	KindUser, KindDocker, KindPepita, KindNetwork, KindCron,
}

// DefaultStateForKind returns the implied effective_state when a
// resource omits State, per the planner's default table.
func DefaultStateForKind(kind ResourceKind) string {
	switch kind {
	case KindPackage:
		return "present"
	case KindFile:
		return "file"
	case KindService:
		return "running"
	case KindMount:
		return "mounted"
	default:
		return "present"
	}
}

// Resource is a discriminated record over a resource kind. The schema
// is permissive at parse time: the attribute fields below are shared
// by every kind, and the validator enforces which ones are required
// for a given Type.
type Resource struct {
	Type       ResourceKind `yaml:"type"`
	Machine    MachineRef   `yaml:"machine"`
	State      string       `yaml:"state,omitempty"`
	DependsOn  []string     `yaml:"depends_on,omitempty"`

	// Attribute bag, shared across kinds. Template substitution (§4.3)
	// applies to Content, Source, Path, Target, Owner, Group, Mode,
	// Name, Options.
	Provider   string            `yaml:"provider,omitempty"`
	Packages   []string          `yaml:"packages,omitempty"`
	Path       string            `yaml:"path,omitempty"`
	Content    string            `yaml:"content,omitempty"`
	Source     string            `yaml:"source,omitempty"`
	Target     string            `yaml:"target,omitempty"`
	Owner      string            `yaml:"owner,omitempty"`
	Group      string            `yaml:"group,omitempty"`
	Mode       string            `yaml:"mode,omitempty"`
	Name       string            `yaml:"name,omitempty"`
	Enabled    *bool             `yaml:"enabled,omitempty"`
	RestartOn  []string          `yaml:"restart_on,omitempty"`
	FSType     string            `yaml:"fs_type,omitempty"`
	Options    map[string]string `yaml:"options,omitempty"`
}

// MachineRef accepts either a single machine name or a list of names
// in the source document; Names always holds a slice.
type MachineRef struct {
	Names []string
}

func (r MachineRef) MarshalYAML() (interface{}, error) {
	if len(r.Names) == 1 {
		return r.Names[0], nil
	}
	return r.Names, nil
}

func (r *MachineRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Names = []string{node.Value}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return fmt.Errorf("machine: expected a string or list of strings: %w", err)
	}
	r.Names = many
	return nil
}

// Policy governs failure handling and provenance/lock persistence.
type Policy struct {
	Failure          FailurePolicy `yaml:"failure,omitempty"`
	Tripwire         *bool         `yaml:"tripwire,omitempty"`
	LockFile         *bool         `yaml:"lock_file,omitempty"`
	ParallelMachines bool          `yaml:"parallel_machines,omitempty"`
}

// FailurePolicy selects how the executor reacts to a failed resource.
type FailurePolicy string

const (
	StopOnFirst         FailurePolicy = "stop_on_first"
	ContinueIndependent FailurePolicy = "continue_independent"
)

// TripwireEnabled returns the effective tripwire flag, defaulting true.
func (p Policy) TripwireEnabled() bool {
	return p.Tripwire == nil || *p.Tripwire
}

// LockFileEnabled returns the effective lock_file flag, defaulting true.
func (p Policy) LockFileEnabled() bool {
	return p.LockFile == nil || *p.LockFile
}

// EffectiveFailure returns the effective failure policy, defaulting to
// stop_on_first.
func (p Policy) EffectiveFailure() FailurePolicy {
	if p.Failure == "" {
		return StopOnFirst
	}
	return p.Failure
}

// ResolvedResource is a Resource after template substitution, the unit
// the planner hashes and the executor applies. Carrying the id and
// target machine alongside the resolved attributes keeps hashing and
// script generation working from the same value.
type ResolvedResource struct {
	ID       string
	Machine  string
	Resource Resource
}
