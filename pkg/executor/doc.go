// Package executor drives an ExecutionPlan to completion: one machine
// at a time, in insertion order, applying each planned change through
// a ScriptGenerator and Transport and recording the outcome in the
// machine's lock and event log. It never retries a failed resource.
package executor
