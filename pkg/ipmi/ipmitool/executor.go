package ipmitool

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/internal/util"
	"github.com/rileyhilliard/ipmitool/pkg/sshutil"
)

// Executor runs the ipmitool binary with the given arguments. env holds
// extra KEY=value variables for the binary and never reaches its argv.
// A non-zero exit code with a nil error means the binary ran and failed.
type Executor interface {
	Run(ctx context.Context, env, args []string) (stdout, stderr []byte, exitCode int, err error)
	Close() error
}

// LocalExecutor runs ipmitool on this machine.
type LocalExecutor struct {
	// Path is the binary to run; empty means "ipmitool" from PATH.
	Path string
}

func (e *LocalExecutor) Run(ctx context.Context, env, args []string) ([]byte, []byte, int, error) {
	path := e.Path
	if path == "" {
		path = "ipmitool"
	}

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, path, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr
	if len(env) > 0 {
		command.Env = append(os.Environ(), env...)
	}

	runErr := command.Run()
	if ctx.Err() != nil {
		return stdout.Bytes(), stderr.Bytes(), -1, ctx.Err()
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
		}
		return nil, nil, -1, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run "+path,
			"Install ipmitool or pass the full path of the binary.")
	}
	return stdout.Bytes(), stderr.Bytes(), 0, nil
}

func (e *LocalExecutor) Close() error { return nil }

// RemoteExecutor runs ipmitool on another host over SSH. env is set with
// shell assignments ahead of the binary, so it stays out of ipmitool's argv
// but is part of the command the remote shell receives.
type RemoteExecutor struct {
	Client sshutil.SSHClient
	Path   string
}

func (e *RemoteExecutor) Run(ctx context.Context, env, args []string) ([]byte, []byte, int, error) {
	path := e.Path
	if path == "" {
		path = "ipmitool"
	}

	cmd := util.ShellJoin(append([]string{path}, args...)...)
	for j := len(env) - 1; j >= 0; j-- {
		name, value, _ := strings.Cut(env[j], "=")
		cmd = name + "=" + util.ShellQuote(value) + " " + cmd
	}
	stdout, stderr, exitCode, err := e.Client.ExecContext(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, -1, ctx.Err()
		}
		return nil, nil, -1, errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't run ipmitool on "+e.Client.GetHost(),
			"Check that the host is reachable over SSH.")
	}
	return stdout, stderr, exitCode, nil
}

func (e *RemoteExecutor) Close() error {
	return e.Client.Close()
}
