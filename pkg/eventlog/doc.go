// Package eventlog appends provenance events to a machine's
// events.jsonl: one self-contained JSON object per line, never read
// back and never truncated by this package. Timestamps are computed
// from seconds-since-epoch without an external date library, using
// the Gregorian calendar's own leap-year rule.
package eventlog
