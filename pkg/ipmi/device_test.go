package ipmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceID_UnmarshalBinary(t *testing.T) {
	data := []byte{
		0x20,             // device id
		0x81,             // provides SDRs, revision 1
		0x01,             // available, firmware major 1
		0x23,             // firmware minor 23 (BCD)
		0x51,             // IPMI 1.5
		0x3d,             // additional device support
		0x7c, 0x2a, 0x00, // manufacturer 10876
		0x07, 0x09, // product 0x0907
		0x01, 0x02, 0x03, 0x04, // aux
	}

	var id DeviceID
	require.NoError(t, id.UnmarshalBinary(data))

	assert.Equal(t, uint8(0x20), id.DeviceID)
	assert.Equal(t, uint8(1), id.Revision)
	assert.True(t, id.ProvidesSDRs)
	assert.True(t, id.Available)
	assert.Equal(t, uint8(1), id.FirmwareMajor)
	assert.Equal(t, uint8(23), id.FirmwareMinor)
	assert.Equal(t, uint8(1), id.IPMIMajor)
	assert.Equal(t, uint8(5), id.IPMIMinor)
	assert.Equal(t, uint32(10876), id.ManufacturerID)
	assert.Equal(t, uint16(0x0907), id.ProductID)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, id.Aux)

	supported := map[Function]bool{
		FunctionSensor:             true,
		FunctionSDRRepository:      false,
		FunctionSEL:                true,
		FunctionFRUInventory:       true,
		FunctionIPMBEventReceiver:  true,
		FunctionIPMBEventGenerator: true,
		FunctionBridge:             false,
		FunctionChassis:            false,
	}
	for f, want := range supported {
		assert.Equal(t, want, id.SupportsFunction(f), f.String())
	}
}

func TestDeviceID_UnmarshalBinary_WithoutAux(t *testing.T) {
	data := []byte{0x01, 0x00, 0x80, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	var id DeviceID
	require.NoError(t, id.UnmarshalBinary(data))

	assert.Nil(t, id.Aux)
	assert.False(t, id.Available, "bit 7 of firmware revision means update in progress")
	assert.False(t, id.ProvidesSDRs)
	assert.Equal(t, uint8(2), id.IPMIMajor)
	assert.Equal(t, uint8(0), id.IPMIMinor)
}

func TestDeviceID_UnmarshalBinary_TooShort(t *testing.T) {
	var id DeviceID
	err := id.UnmarshalBinary([]byte{0x20, 0x01})

	var valueErr *ValueError
	require.ErrorAs(t, err, &valueErr)
}

func TestDeviceID_MarshalBinary(t *testing.T) {
	id := &DeviceID{
		DeviceID:          0x20,
		Revision:          3,
		ProvidesSDRs:      true,
		Available:         true,
		FirmwareMajor:     2,
		FirmwareMinor:     45,
		IPMIMajor:         2,
		IPMIMinor:         0,
		AdditionalSupport: 0x81,
		ManufacturerID:    0x12345,
		ProductID:         0xbeef,
		Aux:               []byte{9, 8, 7, 6},
	}

	data, err := id.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x20, 0x83, 0x02, 0x45, 0x02, 0x81, 0x45, 0x23, 0x01, 0xef, 0xbe, 9, 8, 7, 6,
	}, data)

	var decoded DeviceID
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, *id, decoded)
}

func TestDeviceID_MarshalBinary_BadAux(t *testing.T) {
	_, err := (&DeviceID{Aux: []byte{1, 2}}).MarshalBinary()
	assert.Error(t, err)
}

func TestDeviceID_SupportsFunctionName(t *testing.T) {
	id := &DeviceID{AdditionalSupport: 1 << uint(FunctionChassis)}

	assert.True(t, id.SupportsFunctionName("chassis"))
	assert.True(t, id.SupportsFunctionName("CHASSIS"))
	assert.False(t, id.SupportsFunctionName("bridge"))
	assert.False(t, id.SupportsFunctionName("toaster"))
	assert.False(t, id.SupportsFunction(Function(12)))
}

func TestParseFunction(t *testing.T) {
	for _, f := range Functions {
		got, ok := ParseFunction(f.String())
		assert.True(t, ok, f.String())
		assert.Equal(t, f, got)
	}

	_, ok := ParseFunction("unknown")
	assert.False(t, ok)
}
