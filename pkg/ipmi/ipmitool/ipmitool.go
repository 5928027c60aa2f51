// Package ipmitool is an ipmi.Interface that shells out to the ipmitool
// binary's "raw" command, either locally or on a jump host over SSH.
package ipmitool

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/internal/logger"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
)

// DefaultTimeout bounds a single ipmitool invocation.
const DefaultTimeout = 15 * time.Second

// passwordEnv is read by "ipmitool -E".
const passwordEnv = "IPMI_PASSWORD"

var completionCodePattern = regexp.MustCompile(`rsp=0x([0-9a-fA-F]{1,2})`)

// Interface drives the ipmitool binary through an Executor.
type Interface struct {
	exec    Executor
	timeout time.Duration
	log     logger.Logger

	// session is set while a LAN session is established.
	session *ipmi.Session
}

var _ ipmi.Interface = (*Interface)(nil)

// Option configures an Interface.
type Option func(*Interface)

// WithTimeout sets the per-invocation deadline.
func WithTimeout(d time.Duration) Option {
	return func(i *Interface) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithLogger sets the logger used to trace invocations.
func WithLogger(l logger.Logger) Option {
	return func(i *Interface) {
		if l != nil {
			i.log = logger.WithComponent(l, "ipmitool")
		}
	}
}

// New creates an Interface that runs ipmitool through exec.
func New(exec Executor, opts ...Option) *Interface {
	i := &Interface{exec: exec, timeout: DefaultTimeout, log: logger.Noop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Interface) Name() string { return "ipmitool" }

func (i *Interface) SendMessage(target ipmi.Target, req ipmi.Request) (ipmi.Response, error) {
	args := i.baseArgs(target)
	args = append(args, "raw", hexByte(req.NetFn), hexByte(req.Command))
	for _, b := range req.Data {
		args = append(args, hexByte(b))
	}

	stdout, stderr, err := i.run(req.String(), args)
	if err != nil {
		var failed *commandError
		if !stderrors.As(err, &failed) {
			return ipmi.Response{}, err
		}
		if m := completionCodePattern.FindSubmatch(failed.stderr); m != nil {
			code, _ := strconv.ParseUint(string(m[1]), 16, 8)
			return ipmi.Response{CompletionCode: uint8(code)}, nil
		}
		if strings.Contains(string(failed.stderr), "Unable to send RAW command") {
			return ipmi.Response{}, &ipmi.TimeoutError{Op: req.String()}
		}
		return ipmi.Response{}, errors.Wrap(err, "ipmitool couldn't send "+req.String())
	}

	data, err := ParseRawOutput(stdout)
	if err != nil {
		return ipmi.Response{}, err
	}
	if len(stderr) > 0 {
		i.log.Debug("ipmitool stderr: %s", strings.TrimSpace(string(stderr)))
	}
	return ipmi.Response{Data: data}, nil
}

// EstablishSession checks the LAN credentials with "session info active".
// ipmitool opens and closes its own RMCP+ session per invocation, so the
// parameters are remembered and replayed on every request.
func (i *Interface) EstablishSession(s *ipmi.Session) error {
	i.session = s
	args := append(i.lanArgs(), "session", "info", "active")
	if _, _, err := i.run("session info", args); err != nil {
		i.session = nil
		return err
	}
	return nil
}

func (i *Interface) CloseSession(s *ipmi.Session) error {
	if i.session != s {
		return fmt.Errorf("session with %s is not open on this interface", s.Host())
	}
	i.session = nil
	return nil
}

func (i *Interface) Close() error {
	return i.exec.Close()
}

// commandError is a non-zero exit from ipmitool.
type commandError struct {
	exitCode int
	stderr   []byte
}

func (e *commandError) Error() string {
	msg := strings.TrimSpace(string(e.stderr))
	if msg == "" {
		return fmt.Sprintf("ipmitool exited with status %d", e.exitCode)
	}
	return fmt.Sprintf("ipmitool exited with status %d: %s", e.exitCode, msg)
}

func (i *Interface) run(op string, args []string) ([]byte, []byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), i.timeout)
	defer cancel()

	i.log.Debug("running ipmitool %s", strings.Join(args, " "))
	stdout, stderr, exitCode, err := i.exec.Run(ctx, i.env(), args)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, nil, &ipmi.TimeoutError{Op: op}
		}
		return nil, nil, err
	}
	if exitCode != 0 {
		return stdout, stderr, &commandError{exitCode: exitCode, stderr: stderr}
	}
	return stdout, stderr, nil
}

func (i *Interface) baseArgs(target ipmi.Target) []string {
	var args []string
	if i.session != nil {
		args = i.lanArgs()
	} else {
		args = []string{"-I", "open"}
	}
	if target.Address != ipmi.DefaultTargetAddress {
		args = append(args, "-t", hexByte(target.Address))
	}
	return args
}

// lanArgs selects lanplus for the remembered session. -E makes ipmitool
// read the password from IPMI_PASSWORD, which env supplies.
func (i *Interface) lanArgs() []string {
	s := i.session
	args := []string{"-I", "lanplus", "-H", s.Host(), "-p", strconv.Itoa(s.Port())}
	if s.User() != "" {
		args = append(args, "-U", s.User())
	}
	return append(args, "-E")
}

// env passes the session password to ipmitool out of its argv.
func (i *Interface) env() []string {
	if i.session == nil {
		return nil
	}
	return []string{passwordEnv + "=" + i.session.Password()}
}

// ParseRawOutput decodes the whitespace-separated hex bytes printed by
// "ipmitool raw".
func ParseRawOutput(out []byte) ([]byte, error) {
	fields := strings.Fields(string(out))
	data := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrIPMI,
				fmt.Sprintf("Unexpected ipmitool output %q", f),
				"Check that the installed ipmitool supports the raw command.")
		}
		data = append(data, byte(b))
	}
	return data, nil
}

func hexByte(b uint8) string {
	return fmt.Sprintf("0x%02x", b)
}
