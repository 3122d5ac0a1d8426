package transport

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/ironclad/converge/pkg/types"
)

// SSHTransport runs scripts on remote machines over SSH, dialing once
// per call. Auth tries the machine's configured key first, then falls
// back to the SSH agent.
type SSHTransport struct {
	Port           int
	ConnectTimeout time.Duration
}

// NewSSHTransport returns an SSHTransport using the standard port.
func NewSSHTransport() *SSHTransport {
	return &SSHTransport{Port: 22, ConnectTimeout: 10 * time.Second}
}

func (t *SSHTransport) Exec(ctx context.Context, m types.Machine, script string) (ExecResult, error) {
	client, err := t.dial(m)
	if err != nil {
		return ExecResult{}, fmt.Errorf("ssh dial %s: %w", m.Addr, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return ExecResult{}, fmt.Errorf("ssh session %s: %w", m.Addr, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(script) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return ExecResult{}, ctx.Err()
	case err := <-done:
		exitCode := 0
		if err != nil {
			if exitErr, ok := err.(*ssh.ExitError); ok {
				exitCode = exitErr.ExitStatus()
			} else {
				return ExecResult{}, fmt.Errorf("ssh run %s: %w", m.Addr, err)
			}
		}
		return ExecResult{ExitCode: exitCode, Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}
}

func (t *SSHTransport) dial(m types.Machine) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User:            m.User,
		Auth:            authMethods(m),
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         t.ConnectTimeout,
	}
	port := t.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(m.Addr, fmt.Sprintf("%d", port))
	return ssh.Dial("tcp", addr, config)
}

// authMethods tries the machine's explicit key first, then falls back
// to whatever identities the running SSH agent offers.
func authMethods(m types.Machine) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if m.SSHKey != "" {
		if keyData, err := os.ReadFile(m.SSHKey); err == nil {
			if signer, err := ssh.ParsePrivateKey(keyData); err == nil {
				methods = append(methods, ssh.PublicKeys(signer))
			}
		}
	}

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			agentClient := agent.NewClient(conn)
			methods = append(methods, ssh.PublicKeysCallback(agentClient.Signers))
		}
	}

	return methods
}
