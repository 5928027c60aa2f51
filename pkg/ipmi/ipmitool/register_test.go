package ipmitool

import (
	"testing"
	"time"

	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInterface_Local(t *testing.T) {
	iface, err := ipmi.CreateInterface("ipmitool:/opt/bin/ipmitool", ipmi.InterfaceOptions{Timeout: 3 * time.Second})
	require.NoError(t, err)

	local, ok := iface.(*Interface)
	require.True(t, ok)
	assert.Equal(t, "ipmitool", local.Name())
	assert.Equal(t, 3*time.Second, local.timeout)
	assert.Equal(t, &LocalExecutor{Path: "/opt/bin/ipmitool"}, local.exec)
}

func TestCreateInterface_LocalDefaults(t *testing.T) {
	iface, err := ipmi.CreateInterface("ipmitool", ipmi.InterfaceOptions{})
	require.NoError(t, err)

	local := iface.(*Interface)
	assert.Equal(t, DefaultTimeout, local.timeout)
	assert.Equal(t, &LocalExecutor{}, local.exec)
}

func TestCreateInterface_SSHNeedsHost(t *testing.T) {
	_, err := ipmi.CreateInterface("ssh", ipmi.InterfaceOptions{})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
