/*
Package types defines the core data structures shared across converge.

It contains the declarative configuration model (machines and resources),
the execution plan produced by the planner, the per-machine state lock
persisted by the executor, and the provenance events appended to a
machine's event log. These types are the contract every other package
in this module reads and writes.

# Ordered maps

Configuration.Machines, Configuration.Resources, and StateLock.Resources
must preserve insertion order across parse -> mutate -> serialize
round-trips; see OrderedMap for the mechanism.

# Resource kinds

Resource is a discriminated envelope over a closed set of kinds
(package, file, service, mount, user, docker, pepita, network, cron).
The envelope is permissive at parse time — kind-specific required
fields are enforced by the validator, not by the Go type system, since
the attribute bag is shared across all kinds.
*/
package types
