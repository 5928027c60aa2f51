// Package testing provides an in-memory sshutil.SSHClient for tests that
// exercise remote command execution without a jump host.
package testing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/rileyhilliard/ipmitool/pkg/sshutil"
)

// CommandResponse defines a canned response for a command.
type CommandResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Error    error
}

type patternResponse struct {
	pattern *regexp.Regexp
	resp    CommandResponse
}

// MockClient simulates an SSH connection. Commands are answered by exact
// match first, then by registered regex in registration order, then by
// Handler. Anything left exits 127 like an unknown shell command.
type MockClient struct {
	mu       sync.Mutex
	host     string
	address  string
	closed   bool
	exact    map[string]CommandResponse
	patterns []patternResponse
	commands []string

	// Handler answers commands no canned response matched.
	Handler func(cmd string) CommandResponse

	// Delay is applied before every command; a context that ends first wins.
	Delay time.Duration
}

var _ sshutil.SSHClient = (*MockClient)(nil)

// NewMockClient creates a mock SSH client with no canned responses.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:    host,
		address: host + ":22",
		exact:   make(map[string]CommandResponse),
	}
}

// ExecContext records cmd and returns the matching response.
func (m *MockClient) ExecContext(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, nil, -1, errors.New("connection closed")
	}
	m.commands = append(m.commands, cmd)
	delay := m.Delay
	resp := m.lookup(cmd)
	m.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, nil, -1, ctx.Err()
		case <-timer.C:
		}
	}

	if resp.Error != nil {
		return nil, nil, -1, resp.Error
	}
	return resp.Stdout, resp.Stderr, resp.ExitCode, nil
}

func (m *MockClient) lookup(cmd string) CommandResponse {
	if resp, ok := m.exact[cmd]; ok {
		return resp
	}
	for _, p := range m.patterns {
		if p.pattern.MatchString(cmd) {
			return p.resp
		}
	}
	if m.Handler != nil {
		return m.Handler(cmd)
	}
	return CommandResponse{
		Stderr:   []byte(fmt.Sprintf("sh: %s: command not found\n", cmd)),
		ExitCode: 127,
	}
}

// SetCommandResponse registers a response for an exact command string.
func (m *MockClient) SetCommandResponse(cmd string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[cmd] = resp
}

// SetPatternResponse registers a response for commands matching a regex.
// It panics if pattern does not compile.
func (m *MockClient) SetPatternResponse(pattern string, resp CommandResponse) {
	re := regexp.MustCompile(pattern)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, patternResponse{pattern: re, resp: resp})
}

// Commands returns every command run so far, in order.
func (m *MockClient) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.commands...)
}

// Close marks the connection as closed.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GetHost returns the host name.
func (m *MockClient) GetHost() string {
	return m.host
}

// GetAddress returns the host:port address.
func (m *MockClient) GetAddress() string {
	return m.address
}
