package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
)

// DefaultInterface is used when -I is not given.
const DefaultInterface = "ipmitool"

// Flag names, also used as viper keys.
const (
	flagVerbose         = "verbose"
	flagHelp            = "help"
	flagVersion         = "version"
	flagTarget          = "target"
	flagHost            = "host"
	flagUser            = "user"
	flagPassword        = "password"
	flagAskPassword     = "ask-password"
	flagPort            = "port"
	flagInterface       = "interface"
	flagTimeout         = "timeout"
	flagInsecureHostKey = "insecure-host-key"
)

// Options is everything a run needs from the command line.
type Options struct {
	Verbose bool

	// Target is the IPMB address requests are sent to.
	Target uint8

	// HostSet is true when -H was given, even with an empty host, and
	// selects a LAN session with Host.
	HostSet     bool
	Host        string
	Port        int
	User        string
	Password    string
	AskPassword bool

	Interface       string
	Timeout         time.Duration
	InsecureHostKey bool
}

func registerFlags(fs *pflag.FlagSet) {
	fs.SortFlags = false
	fs.BoolP(flagVerbose, "v", false, "verbose output")
	fs.BoolP(flagHelp, "h", false, "print usage and exit")
	fs.BoolP(flagVersion, "V", false, "print version and exit")
	fs.StringP(flagTarget, "t", "0x20", "target address (decimal, 0x hex, 0o octal)")
	fs.StringP(flagHost, "H", "", "remote host for a LAN session")
	fs.StringP(flagUser, "U", "", "LAN session user")
	fs.StringP(flagPassword, "P", "", "LAN session password")
	fs.BoolP(flagAskPassword, "a", false, "prompt for the LAN session password")
	fs.IntP(flagPort, "p", ipmi.DefaultRMCPPort, "remote RMCP port")
	fs.StringP(flagInterface, "I", DefaultInterface, "interface: ipmitool[:path], ssh:<host>, sim[:fixture.yaml]")
	fs.IntP(flagTimeout, "N", 15, "seconds to wait for each response")
	fs.Bool(flagInsecureHostKey, false, "skip known_hosts verification for -I ssh")
}

// loadOptions assembles Options from parsed flags. Only flags feed the
// values; no config file or environment is consulted.
func loadOptions(fs *pflag.FlagSet) (Options, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Options{}, err
	}

	target, err := parseTarget(v.GetString(flagTarget))
	if err != nil {
		return Options{}, err
	}

	port := v.GetInt(flagPort)
	if port < 1 || port > 65535 {
		return Options{}, errors.NewOptionError(fmt.Errorf("option -p: port %d out of range", port))
	}

	timeout := v.GetInt(flagTimeout)
	if timeout < 1 {
		return Options{}, errors.NewOptionError(fmt.Errorf("option -N: timeout must be at least 1 second"))
	}

	return Options{
		Verbose:         v.GetBool(flagVerbose),
		Target:          target,
		HostSet:         fs.Changed(flagHost),
		Host:            v.GetString(flagHost),
		Port:            port,
		User:            v.GetString(flagUser),
		Password:        v.GetString(flagPassword),
		AskPassword:     v.GetBool(flagAskPassword),
		Interface:       v.GetString(flagInterface),
		Timeout:         time.Duration(timeout) * time.Second,
		InsecureHostKey: v.GetBool(flagInsecureHostKey),
	}, nil
}

// parseTarget accepts any base prefix strconv understands and rejects
// values outside 0..255.
func parseTarget(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, errors.NewOptionError(fmt.Errorf("option -t: invalid target address %q", s))
	}
	return uint8(n), nil
}
