// Package transport runs a generated script on a target machine and
// reports its exit code and captured output. LocalTransport drives
// localhost directly via os/exec; SSHTransport drives remote machines
// over golang.org/x/crypto/ssh, with an explicit-key-then-agent auth
// fallback chain.
package transport
