package sshutil

import "context"

// SSHClient runs commands on a jump host. Both the real Client and the
// mock in sshutil/testing satisfy it.
type SSHClient interface {
	// ExecContext runs cmd and returns its output and exit code.
	// Exit code is -1 if the command couldn't be executed at all.
	// A non-zero exit code with nil error means the command ran but failed.
	// When ctx is done the remote process is killed and ctx.Err() returned.
	ExecContext(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error)

	// Close closes the SSH connection.
	Close() error

	// GetHost returns the original host/alias used to connect.
	GetHost() string

	// GetAddress returns the resolved host:port address.
	GetAddress() string
}
