package ipmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSensor(c Conversion) *SDR {
	return &SDR{ID: 0x0010, Type: RecordTypeFullSensor, Conversion: &c}
}

func TestSDR_ConvertSensorReading(t *testing.T) {
	tests := []struct {
		name string
		conv Conversion
		raw  uint8
		want float64
	}{
		{"identity", Conversion{M: 1}, 45, 45},
		{"multiplier", Conversion{M: 50}, 108, 5400},
		{"negative result exponent", Conversion{M: 2, RExp: -2}, 165, 3.3},
		{"offset with exponent", Conversion{M: 1, B: 10, BExp: 1}, 5, 105},
		{"negative multiplier", Conversion{M: -1}, 10, -10},
		{"twos complement", Conversion{M: 1, AnalogFormat: AnalogTwosComplement}, 0xfe, -2},
		{"ones complement", Conversion{M: 1, AnalogFormat: AnalogOnesComplement}, 0xfe, -1},
		{"ones complement positive", Conversion{M: 1, AnalogFormat: AnalogOnesComplement}, 0x05, 5},
		{"square", Conversion{M: 1, Linearization: LinearSqr}, 3, 9},
		{"cube", Conversion{M: 1, Linearization: LinearCube}, 2, 8},
		{"inverse", Conversion{M: 1, Linearization: LinearInverse}, 4, 0.25},
		{"log10", Conversion{M: 1, Linearization: LinearLog10}, 100, 2},
		{"log2", Conversion{M: 1, Linearization: LinearLog2}, 8, 3},
		{"exp10", Conversion{M: 1, Linearization: LinearExp10}, 2, 100},
		{"exp2", Conversion{M: 1, Linearization: LinearExp2}, 5, 32},
		{"sqrt", Conversion{M: 1, Linearization: LinearSqrt}, 16, 4},
		{"cube root", Conversion{M: 1, Linearization: LinearCubeRoot}, 27, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fullSensor(tt.conv).ConvertSensorReading(tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSDR_ConvertSensorReading_Errors(t *testing.T) {
	tests := []struct {
		name string
		sdr  *SDR
		raw  uint8
	}{
		{"no analog reading", fullSensor(Conversion{M: 1, AnalogFormat: AnalogNone}), 1},
		{"non-linear sensor", fullSensor(Conversion{M: 1, Linearization: 0x71}), 1},
		{"log of zero", fullSensor(Conversion{M: 1, Linearization: LinearLn}), 0},
		{"inverse of zero", fullSensor(Conversion{M: 1, Linearization: LinearInverse}), 0},
		{"sqrt of negative", fullSensor(Conversion{M: -1, Linearization: LinearSqrt}), 4},
		{"compact sensor", &SDR{Type: RecordTypeCompactSensor}, 1},
		{"full sensor without factors", &SDR{Type: RecordTypeFullSensor}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sdr.ConvertSensorReading(tt.raw)

			var valueErr *ValueError
			assert.ErrorAs(t, err, &valueErr)
		})
	}
}

func TestSDR_MarshalUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		sdr  SDR
	}{
		{
			name: "full sensor with signed factors",
			sdr: SDR{
				ID: 0x0002, Version: 0x51, Type: RecordTypeFullSensor,
				OwnerID: 0x20, OwnerLUN: 1, Number: 0x01, EntityID: 0x03, EntityInstance: 1,
				SensorType: 0x01, EventReadingType: 0x01,
				DeviceIDString: "CPU Temp",
				Conversion: &Conversion{
					AnalogFormat: AnalogTwosComplement, Linearization: LinearLinear,
					M: -3, B: -100, RExp: -2, BExp: 3,
				},
			},
		},
		{
			name: "compact sensor",
			sdr: SDR{
				ID: 0x0006, Version: 0x51, Type: RecordTypeCompactSensor,
				OwnerID: 0x20, Number: 0x51, EntityID: 0x17, EntityInstance: 1,
				SensorType: 0x05, EventReadingType: 0x6f,
				DeviceIDString: "Chassis Intru",
			},
		},
		{
			name: "event-only sensor",
			sdr: SDR{
				ID: 0x0008, Version: 0x51, Type: RecordTypeEventOnly,
				OwnerID: 0x20, Number: 0x60, EntityID: 0x07, EntityInstance: 1,
				SensorType: 0x0f, EventReadingType: 0x6f,
				DeviceIDString: "POST Error",
			},
		},
		{
			name: "FRU locator",
			sdr:  SDR{ID: 0x0007, Version: 0x51, Type: RecordTypeFRUDeviceLocator, DeviceIDString: "Mainboard FRU"},
		},
		{
			name: "MC locator",
			sdr:  SDR{ID: 0x0001, Version: 0x51, Type: RecordTypeMCDeviceLocator, OwnerID: 0x20, DeviceIDString: "BMC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.sdr.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, len(data)-sdrHeaderLength, int(data[4]), "record length byte")

			var got SDR
			require.NoError(t, got.UnmarshalBinary(data))
			assert.Equal(t, tt.sdr, got)
		})
	}
}

func TestSDR_UnmarshalBinary_IDStringOffsets(t *testing.T) {
	tests := []struct {
		name     string
		typ      RecordType
		offset   int
		minBytes int
	}{
		{"full", RecordTypeFullSensor, 47, 48},
		{"compact", RecordTypeCompactSensor, 31, 32},
		{"event-only", RecordTypeEventOnly, 16, 17},
		{"fru locator", RecordTypeFRUDeviceLocator, 15, 16},
		{"mc locator", RecordTypeMCDeviceLocator, 15, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.minBytes)
			data[0], data[1] = 0x34, 0x12
			data[3] = byte(tt.typ)
			data[tt.offset] = 0xc4
			data = append(data, "Fan1\x00\x00"...)

			var got SDR
			require.NoError(t, got.UnmarshalBinary(data))
			assert.Equal(t, uint16(0x1234), got.ID)
			assert.Equal(t, tt.typ, got.Type)
			assert.Equal(t, "Fan1", got.DeviceIDString)
		})
	}
}

func TestSDR_UnmarshalBinary_Malformed(t *testing.T) {
	var s SDR

	var valueErr *ValueError
	assert.ErrorAs(t, s.UnmarshalBinary([]byte{0x01, 0x00}), &valueErr)

	// full sensor header with a truncated body
	assert.ErrorAs(t, s.UnmarshalBinary([]byte{0x01, 0x00, 0x51, 0x01, 0x05, 0x20}), &valueErr)
}

func TestSDR_UnmarshalBinary_UnknownTypeKeepsHeader(t *testing.T) {
	var s SDR
	require.NoError(t, s.UnmarshalBinary([]byte{0x09, 0x00, 0x51, 0xc0, 0x00}))

	assert.Equal(t, uint16(0x0009), s.ID)
	assert.Equal(t, RecordType(0xc0), s.Type)
	assert.Empty(t, s.DeviceIDString)
}

func TestSDR_MarshalBinary_Errors(t *testing.T) {
	_, err := (&SDR{Type: RecordTypeFullSensor, DeviceIDString: "a name longer than sixteen"}).MarshalBinary()
	assert.Error(t, err)

	_, err = (&SDR{Type: RecordType(0xc0)}).MarshalBinary()
	assert.Error(t, err)
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int16(-1), signExtend(0x3ff, 10))
	assert.Equal(t, int16(511), signExtend(0x1ff, 10))
	assert.Equal(t, int16(-8), signExtend(0x8, 4))
	assert.Equal(t, int16(7), signExtend(0x7, 4))
}
