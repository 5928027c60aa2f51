package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_Lookup(t *testing.T) {
	client := NewMockClient("jump")
	client.SetCommandResponse("ipmitool -V", CommandResponse{Stdout: []byte("ipmitool version 1.8.19\n")})
	client.SetPatternResponse(`raw 0x06 0x01`, CommandResponse{Stdout: []byte(" 20 01\n")})
	client.SetPatternResponse(`raw 0x06`, CommandResponse{Stderr: []byte("rsp=0xc1\n"), ExitCode: 1})
	client.Handler = func(cmd string) CommandResponse {
		return CommandResponse{Stdout: []byte("handled " + cmd)}
	}

	tests := []struct {
		name   string
		cmd    string
		stdout string
		stderr string
		code   int
	}{
		{name: "exact", cmd: "ipmitool -V", stdout: "ipmitool version 1.8.19\n"},
		{name: "first pattern wins", cmd: "ipmitool raw 0x06 0x01", stdout: " 20 01\n"},
		{name: "later pattern", cmd: "ipmitool raw 0x06 0x03", stderr: "rsp=0xc1\n", code: 1},
		{name: "handler", cmd: "uptime", stdout: "handled uptime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code, err := client.ExecContext(context.Background(), tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.stdout, string(stdout))
			assert.Equal(t, tt.stderr, string(stderr))
			assert.Equal(t, tt.code, code)
		})
	}

	assert.Equal(t, []string{"ipmitool -V", "ipmitool raw 0x06 0x01", "ipmitool raw 0x06 0x03", "uptime"}, client.Commands())
}

func TestMockClient_UnknownCommand(t *testing.T) {
	client := NewMockClient("jump")

	_, stderr, code, err := client.ExecContext(context.Background(), "frobnicate")
	require.NoError(t, err)
	assert.Equal(t, 127, code)
	assert.Contains(t, string(stderr), "command not found")
}

func TestMockClient_Error(t *testing.T) {
	client := NewMockClient("jump")
	client.SetCommandResponse("boom", CommandResponse{Error: errors.New("channel reset")})

	_, _, code, err := client.ExecContext(context.Background(), "boom")
	assert.EqualError(t, err, "channel reset")
	assert.Equal(t, -1, code)
}

func TestMockClient_DelayHonoursContext(t *testing.T) {
	client := NewMockClient("jump")
	client.Delay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, code, err := client.ExecContext(ctx, "sleep")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, code)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestMockClient_Close(t *testing.T) {
	client := NewMockClient("jump")
	assert.False(t, client.Closed())

	require.NoError(t, client.Close())
	assert.True(t, client.Closed())

	_, _, _, err := client.ExecContext(context.Background(), "echo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
	assert.Empty(t, client.Commands())
}

func TestMockClient_GetHostAndAddress(t *testing.T) {
	client := NewMockClient("bmc-jump")

	assert.Equal(t, "bmc-jump", client.GetHost())
	assert.Equal(t, "bmc-jump:22", client.GetAddress())
}
