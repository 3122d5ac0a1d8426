package transport

import (
	"context"

	"github.com/ironclad/converge/pkg/types"
)

// ExecResult is the outcome of running a script on a machine.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the script exited zero.
func (r ExecResult) Succeeded() bool {
	return r.ExitCode == 0
}

// Transport runs script on m and returns its result. Only a non-nil
// error indicates a transport-level failure (connection refused,
// auth failure, …); a non-zero ExitCode is a resource failure, not a
// transport error.
type Transport interface {
	Exec(ctx context.Context, m types.Machine, script string) (ExecResult, error)
}
