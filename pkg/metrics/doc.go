// Package metrics wires the convergence engine into Prometheus so
// plan/apply/drift cycles are observable in production the same way
// as any other long-lived service.
package metrics
