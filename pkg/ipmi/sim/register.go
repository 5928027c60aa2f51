package sim

import "github.com/rileyhilliard/ipmitool/pkg/ipmi"

func init() {
	ipmi.RegisterInterface("sim", Open)
}

// Open builds a simulator for "-I sim[:fixture.yaml]". Without a path the
// built-in fixture is used.
func Open(opts ipmi.InterfaceOptions) (ipmi.Interface, error) {
	f := DefaultFixture()
	if opts.Arg != "" {
		var err error
		if f, err = LoadFixture(opts.Arg); err != nil {
			return nil, err
		}
	}
	return New(f, WithLogger(opts.Logger))
}
