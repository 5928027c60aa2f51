package command

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/internal/logger"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
)

// ErrNoMatch is returned by Match when no registered path is a prefix of the
// typed arguments.
var ErrNoMatch = errors.New(errors.ErrUsage,
	"No command matches the given arguments",
	"Run 'ipmitool -h' to list the available commands.")

// Context is what an action runs against: the connection, the stream for
// command output, and a way to print usage for the typed command path.
type Context struct {
	Conn ipmi.Connection
	Out  io.Writer
	Log  logger.Logger

	// UsageFunc renders help for the positional arguments the user typed.
	UsageFunc func()
}

// Usage prints help for the typed command path.
func (c *Context) Usage() {
	if c.UsageFunc != nil {
		c.UsageFunc()
	}
}

// Action executes a resolved command with the arguments left over after the
// command path was consumed.
type Action func(ctx *Context, args []string) error

// Entry maps a command path to its action.
type Entry struct {
	Path   []string
	Action Action
}

// Name returns the path joined by spaces (e.g. "bmc reset cold").
func (e Entry) Name() string {
	return strings.Join(e.Path, " ")
}

// Resolved pairs a matched entry with the residual arguments.
type Resolved struct {
	Entry Entry
	Args  []string
}

// Registry is an ordered, immutable set of command entries.
type Registry struct {
	entries []Entry
}

// NewRegistry builds a registry from entries in declaration order.
// It panics if a path is empty or declared twice.
func NewRegistry(entries ...Entry) *Registry {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if len(e.Path) == 0 {
			panic("command: empty command path")
		}
		key := strings.Join(e.Path, "\x00")
		if seen[key] {
			panic(fmt.Sprintf("command: duplicate command path %q", e.Name()))
		}
		seen[key] = true
	}
	return &Registry{entries: slices.Clone(entries)}
}

// Entries returns the registered entries in declaration order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Match finds the longest registered path that equals a leading run of argv.
// Every prefix length from 1 to len(argv) is tried and the longest hit wins.
// Tokens are compared exactly; there is no abbreviation or case folding.
func (r *Registry) Match(argv []string) (Resolved, error) {
	var best *Entry
	matched := 0

	for n := 1; n <= len(argv); n++ {
		if e := r.lookup(argv[:n]); e != nil {
			best = e
			matched = n
		}
	}

	if best == nil {
		return Resolved{}, ErrNoMatch
	}
	return Resolved{Entry: *best, Args: slices.Clone(argv[matched:])}, nil
}

func (r *Registry) lookup(path []string) *Entry {
	for i := range r.entries {
		if slices.Equal(r.entries[i].Path, path) {
			return &r.entries[i]
		}
	}
	return nil
}
