package ipmitool

import (
	"context"
	"errors"
	"testing"
	"time"

	ipmierrors "github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
	sshtesting "github.com/rileyhilliard/ipmitool/pkg/sshutil/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalExecutor_Run(t *testing.T) {
	e := &LocalExecutor{Path: "sh"}

	stdout, stderr, code, err := e.Run(context.Background(), nil, []string{"-c", "echo out; echo err >&2; exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "out\n", string(stdout))
	assert.Equal(t, "err\n", string(stderr))
	assert.NoError(t, e.Close())
}

func TestLocalExecutor_Env(t *testing.T) {
	t.Setenv("IPMI_TEST_INHERITED", "kept")
	e := &LocalExecutor{Path: "sh"}

	stdout, _, code, err := e.Run(context.Background(), []string{"IPMI_PASSWORD=s3cret"},
		[]string{"-c", `printf '%s %s' "$IPMI_PASSWORD" "$IPMI_TEST_INHERITED"`})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "s3cret kept", string(stdout))
}

func TestLocalExecutor_MissingBinary(t *testing.T) {
	e := &LocalExecutor{Path: "/nonexistent/ipmitool"}

	_, _, code, err := e.Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, -1, code)
	assert.True(t, ipmierrors.IsCode(err, ipmierrors.ErrExec))
}

func TestLocalExecutor_Deadline(t *testing.T) {
	e := &LocalExecutor{Path: "sh"}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, code, err := e.Run(ctx, nil, []string{"-c", "sleep 5"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, code)
}

func TestRemoteExecutor_QuotesArguments(t *testing.T) {
	client := sshtesting.NewMockClient("jump")
	client.SetCommandResponse(`'/usr/bin/ipmitool' '-I' 'lanplus' '-P' 'it'\''s' 'raw' '0x06' '0x01'`,
		sshtesting.CommandResponse{Stdout: []byte("20 01\n")})
	e := &RemoteExecutor{Client: client, Path: "/usr/bin/ipmitool"}

	stdout, _, code, err := e.Run(context.Background(), nil, []string{"-I", "lanplus", "-P", "it's", "raw", "0x06", "0x01"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "20 01\n", string(stdout))
}

func TestRemoteExecutor_Env(t *testing.T) {
	client := sshtesting.NewMockClient("jump")
	e := &RemoteExecutor{Client: client}

	_, _, _, err := e.Run(context.Background(), []string{"IPMI_PASSWORD=it's", "A=b"}, []string{"-E", "raw", "0x06", "0x01"})
	require.NoError(t, err)
	assert.Equal(t, []string{`IPMI_PASSWORD='it'\''s' A='b' 'ipmitool' '-E' 'raw' '0x06' '0x01'`}, client.Commands())
}

func TestRemoteExecutor_Failures(t *testing.T) {
	client := sshtesting.NewMockClient("jump")
	client.SetPatternResponse(`0x03`, sshtesting.CommandResponse{Stderr: []byte("rsp=0xc1"), ExitCode: 1})
	client.SetPatternResponse(`0x02`, sshtesting.CommandResponse{Error: errors.New("channel reset")})
	e := &RemoteExecutor{Client: client}

	_, stderr, code, err := e.Run(context.Background(), nil, []string{"raw", "0x06", "0x03"})
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "rsp=0xc1", string(stderr))

	_, _, _, err = e.Run(context.Background(), nil, []string{"raw", "0x06", "0x02"})
	require.Error(t, err)
	assert.True(t, ipmierrors.IsCode(err, ipmierrors.ErrSSH))
	assert.ErrorContains(t, err, "channel reset")

	assert.Equal(t, []string{"'ipmitool' 'raw' '0x06' '0x03'", "'ipmitool' 'raw' '0x06' '0x02'"}, client.Commands())

	require.NoError(t, e.Close())
	assert.True(t, client.Closed())
}

func TestRemoteExecutor_TimeoutThroughInterface(t *testing.T) {
	client := sshtesting.NewMockClient("jump")
	client.Delay = time.Second
	iface := New(&RemoteExecutor{Client: client}, WithTimeout(20*time.Millisecond))

	_, err := iface.SendMessage(ipmi.NewTarget(0x20), ipmi.Request{NetFn: ipmi.NetFnApp, Command: ipmi.CmdColdReset})

	var timeout *ipmi.TimeoutError
	assert.ErrorAs(t, err, &timeout)
}
