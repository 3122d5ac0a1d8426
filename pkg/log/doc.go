// Package log provides structured logging for converge using zerolog.
//
// A single global Logger is configured once via Init and component
// loggers are derived from it with WithComponent/WithMachine/
// WithResource so every log line carries enough context to trace a
// run without threading a logger through every function signature.
package log
