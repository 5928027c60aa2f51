package ipmi

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/internal/logger"
	"github.com/rileyhilliard/ipmitool/internal/util"
)

// InterfaceOptions carries transport settings from the command line to an
// InterfaceFactory.
type InterfaceOptions struct {
	// Arg is whatever followed the first ':' in the interface spec.
	Arg string

	Logger  logger.Logger
	Timeout time.Duration

	// InsecureHostKey skips known_hosts checks for SSH transports.
	InsecureHostKey bool
}

// InterfaceFactory builds a transport from options.
type InterfaceFactory func(opts InterfaceOptions) (Interface, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]InterfaceFactory)
)

// RegisterInterface makes a transport available to CreateInterface. Transport
// packages call it from init. It panics on an empty or duplicate name.
func RegisterInterface(name string, factory InterfaceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" || factory == nil {
		panic("ipmi: RegisterInterface with empty name or nil factory")
	}
	if _, dup := registry[name]; dup {
		panic("ipmi: RegisterInterface called twice for " + name)
	}
	registry[name] = factory
}

// InterfaceNames lists the registered transports in sorted order.
func InterfaceNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CreateInterface builds the transport named by spec, which is "name" or
// "name:arg".
func CreateInterface(spec string, opts InterfaceOptions) (Interface, error) {
	name, arg, _ := strings.Cut(spec, ":")

	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown interface '%s'", spec),
			unknownInterfaceSuggestion(name))
	}

	opts.Arg = arg
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	return factory(opts)
}

func unknownInterfaceSuggestion(name string) string {
	names := InterfaceNames()
	available := "Available interfaces: " + util.JoinOrNone(names)
	if similar := util.SuggestSimilar(name, names, 2); len(similar) > 0 {
		return fmt.Sprintf("Did you mean '%s'? %s", similar[0], available)
	}
	return available
}
