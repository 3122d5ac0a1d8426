package transport

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/ironclad/converge/pkg/types"
)

// LocalTransport runs scripts against the machine converge is running
// on, for "machine: localhost" resources.
type LocalTransport struct {
	Shell string
}

// NewLocalTransport returns a LocalTransport invoking scripts with
// /bin/sh.
func NewLocalTransport() *LocalTransport {
	return &LocalTransport{Shell: "/bin/sh"}
}

func (t *LocalTransport) Exec(ctx context.Context, _ types.Machine, script string) (ExecResult, error) {
	shell := t.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return ExecResult{}, err
		}
	}

	return ExecResult{ExitCode: exitCode, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}
