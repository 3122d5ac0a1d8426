// Package drift re-hashes the observable state behind converged file
// resources and compares it against the fingerprint recorded in a
// machine's lock, surfacing any divergence as a Finding.
package drift
