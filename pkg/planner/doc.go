// Package planner diffs a configuration's desired state against the
// machines' persisted locks and produces an ExecutionPlan: one action
// per resource per target machine. The canonical desired-state hash
// lives here too, since planning and execution must agree on it
// bit-for-bit.
package planner
