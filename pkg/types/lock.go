package types

import "time"

// ResourceStatus is the outcome recorded for a resource's last attempt.
type ResourceStatus string

const (
	StatusConverged ResourceStatus = "converged"
	StatusFailed    ResourceStatus = "failed"
	StatusDrifted   ResourceStatus = "drifted"
	StatusUnknown   ResourceStatus = "unknown"
)

// ResourceLock is the persisted outcome of the last attempt to converge
// one resource on one machine.
type ResourceLock struct {
	Kind            ResourceKind   `yaml:"kind"`
	Status          ResourceStatus `yaml:"status"`
	AppliedAt       time.Time      `yaml:"applied_at"`
	DurationSeconds float64        `yaml:"duration_seconds"`
	Hash            string         `yaml:"hash"`
	Details         Details        `yaml:"details,omitempty"`
}

// StateLock is the per-machine persisted record of convergence
// outcomes, loaded and saved atomically by the state store.
type StateLock struct {
	Schema        string                     `yaml:"schema"`
	Machine       string                     `yaml:"machine"`
	Hostname      string                     `yaml:"hostname"`
	GeneratedAt   time.Time                  `yaml:"generated_at"`
	Generator     string                     `yaml:"generator"`
	Blake3Version string                     `yaml:"blake3_version"`
	Resources     *OrderedMap[ResourceLock]  `yaml:"resources"`
}

// NewStateLock returns an empty lock for machine, ready for its first
// converged resource.
func NewStateLock(machine, hostname string) *StateLock {
	return &StateLock{
		Schema:        SchemaVersion,
		Machine:       machine,
		Hostname:      hostname,
		Generator:     "converge",
		Blake3Version: "1",
		Resources:     NewOrderedMap[ResourceLock](),
	}
}
