package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/ipmitool/internal/errors"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    uint8
		wantErr bool
	}{
		{"0x20", 0x20, false},
		{"0x25", 37, false},
		{"37", 37, false},
		{"0o45", 37, false},
		{"0b100101", 37, false},
		{"255", 255, false},
		{"0", 0, false},
		{"256", 0, true},
		{"abc", 0, true},
		{"-1", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTarget(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrOption))
				assert.Contains(t, err.Error(), "option -t")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func parseFlags(t *testing.T, args ...string) (Options, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerFlags(fs)
	require.NoError(t, fs.Parse(args))
	return loadOptions(fs)
}

func TestLoadOptions_Defaults(t *testing.T) {
	opts, err := parseFlags(t)
	require.NoError(t, err)

	assert.Equal(t, Options{
		Target:    0x20,
		Port:      623,
		Interface: DefaultInterface,
		Timeout:   15 * time.Second,
	}, opts)
}

func TestLoadOptions_AllFlags(t *testing.T) {
	opts, err := parseFlags(t,
		"-v", "-t", "0x2c", "-H", "bmc.lab", "-U", "admin", "-P", "secret",
		"-a", "-p", "6230", "-I", "ssh:jump", "-N", "3", "--insecure-host-key")
	require.NoError(t, err)

	assert.Equal(t, Options{
		Verbose:         true,
		Target:          0x2c,
		HostSet:         true,
		Host:            "bmc.lab",
		Port:            6230,
		User:            "admin",
		Password:        "secret",
		AskPassword:     true,
		Interface:       "ssh:jump",
		Timeout:         3 * time.Second,
		InsecureHostKey: true,
	}, opts)
}

func TestLoadOptions_LongNames(t *testing.T) {
	opts, err := parseFlags(t, "--host", "bmc", "--target", "40", "--port", "6230")
	require.NoError(t, err)
	assert.Equal(t, "bmc", opts.Host)
	assert.Equal(t, uint8(40), opts.Target)
	assert.Equal(t, 6230, opts.Port)
}

func TestLoadOptions_EmptyHost(t *testing.T) {
	opts, err := parseFlags(t, "-H", "")
	require.NoError(t, err)
	assert.True(t, opts.HostSet)
	assert.Empty(t, opts.Host)
}

func TestLoadOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad target", []string{"-t", "zz"}, "option -t"},
		{"port zero", []string{"-p", "0"}, "option -p"},
		{"port too large", []string{"-p", "70000"}, "option -p"},
		{"timeout zero", []string{"-N", "0"}, "option -N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrOption))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
