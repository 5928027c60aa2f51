package testing

import (
	"errors"
	"testing"

	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_RecordsCalls(t *testing.T) {
	c := NewConnection()
	c.SDRs = []*ipmi.SDR{{ID: 1}, {ID: 2}}
	c.Readings[0x30] = 165

	_, err := c.GetDeviceID()
	require.NoError(t, err)
	require.NoError(t, c.ColdReset())

	var ids []uint16
	for s, err := range c.SDREntries() {
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []uint16{1, 2}, ids)

	raw, err := c.GetSensorReading(0x30)
	require.NoError(t, err)
	assert.Equal(t, uint8(165), raw)

	_, err = c.GetSensorReading(0x31)
	var valueErr *ipmi.ValueError
	assert.ErrorAs(t, err, &valueErr)

	require.NoError(t, c.Close())
	assert.Equal(t, 1, c.CloseCount())
	assert.Equal(t, []string{OpGetDeviceID, OpColdReset, OpSDREntries, OpGetSensorReading, OpGetSensorReading, OpClose}, c.Calls())
}

func TestConnection_Errors(t *testing.T) {
	boom := errors.New("boom")
	c := NewConnection()
	c.SEL = []*ipmi.SELEntry{{ID: 1}}
	c.Errors[OpSELEntries] = boom
	c.Errors[OpWarmReset] = boom

	assert.ErrorIs(t, c.WarmReset(), boom)

	var got []error
	for _, err := range c.SELEntries() {
		got = append(got, err)
	}
	assert.Equal(t, []error{nil, boom}, got)

	_, err := c.GetSDR(9)
	var cc *ipmi.CompletionCodeError
	require.ErrorAs(t, err, &cc)
	assert.Equal(t, uint8(0xcb), cc.Code)
}

func TestConnection_PanicOn(t *testing.T) {
	c := NewConnection()
	c.PanicOn = OpGetDeviceID

	assert.Panics(t, func() { _, _ = c.GetDeviceID() })
	assert.NotPanics(t, func() { _ = c.ColdReset() }, "lock is released after a panic")
}

func TestSession_Counts(t *testing.T) {
	s := &Session{EstablishErr: errors.New("denied")}

	s.SetSessionTypeRMCP("bmc", 623)
	s.SetAuthTypeUser("admin", "pw")
	assert.Error(t, s.Establish())
	assert.False(t, s.Established())

	s.EstablishErr = nil
	require.NoError(t, s.Establish())
	assert.True(t, s.Established())
	require.NoError(t, s.Close())

	assert.Equal(t, 2, s.EstablishCalls())
	assert.Equal(t, 1, s.CloseCalls())
	assert.Equal(t, "bmc", s.Host)
	assert.Equal(t, "pw", s.Password)
}

func TestConnection_Target(t *testing.T) {
	c := NewConnection()
	assert.Equal(t, uint8(0x20), c.Target().Address)

	c.SetTarget(ipmi.NewTarget(0x72))
	assert.Equal(t, uint8(0x72), c.Target().Address)
}
