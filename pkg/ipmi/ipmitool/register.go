package ipmitool

import (
	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
	"github.com/rileyhilliard/ipmitool/pkg/sshutil"
)

func init() {
	ipmi.RegisterInterface("ipmitool", OpenLocal)
	ipmi.RegisterInterface("ssh", OpenRemote)
}

// OpenLocal backs "-I ipmitool[:/path/to/ipmitool]".
func OpenLocal(opts ipmi.InterfaceOptions) (ipmi.Interface, error) {
	return New(&LocalExecutor{Path: opts.Arg}, interfaceOptions(opts)...), nil
}

// OpenRemote backs "-I ssh:<host>" and dials the jump host right away.
func OpenRemote(opts ipmi.InterfaceOptions) (ipmi.Interface, error) {
	if opts.Arg == "" {
		return nil, errors.New(errors.ErrConfig,
			"The ssh interface needs a host",
			"Use -I ssh:<host>, e.g. -I ssh:ops@bmc-jump")
	}

	client, err := sshutil.Dial(opts.Arg, sshutil.DialOptions{
		InsecureIgnoreHostKey: opts.InsecureHostKey,
		Logger:                opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	return New(&RemoteExecutor{Client: client}, interfaceOptions(opts)...), nil
}

func interfaceOptions(opts ipmi.InterfaceOptions) []Option {
	return []Option{WithTimeout(opts.Timeout), WithLogger(opts.Logger)}
}
