// Package store loads and saves a machine's StateLock as a YAML file
// under the state directory, writing atomically (tempfile then
// rename) so a crash mid-save never leaves a partially written lock.
package store
