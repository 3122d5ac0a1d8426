// Package resolver substitutes {{ params.X }} / {{ machine.NAME.FIELD }}
// template references in resource fields, and computes a deterministic
// topological order over the resource dependency graph via Kahn's
// algorithm with an ascending-id tie-break.
package resolver
