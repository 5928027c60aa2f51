package ipmi

import (
	"encoding/binary"
	"strings"
)

// Function is a capability bit in the Get Device ID "additional device
// support" field.
type Function int

const (
	FunctionSensor Function = iota
	FunctionSDRRepository
	FunctionSEL
	FunctionFRUInventory
	FunctionIPMBEventReceiver
	FunctionIPMBEventGenerator
	FunctionBridge
	FunctionChassis
)

// Functions lists every capability in bit order.
var Functions = []Function{
	FunctionSensor,
	FunctionSDRRepository,
	FunctionSEL,
	FunctionFRUInventory,
	FunctionIPMBEventReceiver,
	FunctionIPMBEventGenerator,
	FunctionBridge,
	FunctionChassis,
}

var functionNames = map[Function]string{
	FunctionSensor:             "sensor",
	FunctionSDRRepository:      "sdr_repository",
	FunctionSEL:                "sel",
	FunctionFRUInventory:       "fru_inventory",
	FunctionIPMBEventReceiver:  "ipmb_event_receiver",
	FunctionIPMBEventGenerator: "ipmb_event_generator",
	FunctionBridge:             "bridge",
	FunctionChassis:            "chassis",
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFunction looks a capability up by name (e.g. "sdr_repository").
func ParseFunction(name string) (Function, bool) {
	name = strings.ToLower(name)
	for f, n := range functionNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

// DeviceID is the decoded Get Device ID response.
type DeviceID struct {
	DeviceID          uint8
	Revision          uint8
	ProvidesSDRs      bool
	Available         bool
	FirmwareMajor     uint8
	FirmwareMinor     uint8
	IPMIMajor         uint8
	IPMIMinor         uint8
	AdditionalSupport uint8
	ManufacturerID    uint32
	ProductID         uint16

	// Aux is the optional 4-byte auxiliary firmware revision, or nil.
	Aux []byte
}

// SupportsFunction reports whether the device advertises f.
func (d *DeviceID) SupportsFunction(f Function) bool {
	if f < FunctionSensor || f > FunctionChassis {
		return false
	}
	return d.AdditionalSupport&(1<<uint(f)) != 0
}

// SupportsFunctionName is SupportsFunction keyed by capability name.
// Unknown names are reported as unsupported.
func (d *DeviceID) SupportsFunctionName(name string) bool {
	f, ok := ParseFunction(name)
	return ok && d.SupportsFunction(f)
}

const deviceIDMinLength = 11

// UnmarshalBinary decodes Get Device ID response data.
func (d *DeviceID) UnmarshalBinary(data []byte) error {
	if len(data) < deviceIDMinLength {
		return valueErrorf("device id response too short: %d bytes", len(data))
	}

	*d = DeviceID{
		DeviceID:          data[0],
		Revision:          data[1] & 0x0f,
		ProvidesSDRs:      data[1]&0x80 != 0,
		Available:         data[2]&0x80 == 0,
		FirmwareMajor:     data[2] & 0x7f,
		FirmwareMinor:     fromBCD(data[3]),
		IPMIMajor:         data[4] & 0x0f,
		IPMIMinor:         data[4] >> 4,
		AdditionalSupport: data[5],
		ManufacturerID:    uint32(data[6]) | uint32(data[7])<<8 | uint32(data[8]&0x0f)<<16,
		ProductID:         binary.LittleEndian.Uint16(data[9:11]),
	}
	if len(data) >= deviceIDMinLength+4 {
		d.Aux = append([]byte(nil), data[11:15]...)
	}
	return nil
}

// MarshalBinary encodes d as Get Device ID response data.
func (d *DeviceID) MarshalBinary() ([]byte, error) {
	if len(d.Aux) != 0 && len(d.Aux) != 4 {
		return nil, valueErrorf("aux firmware info must be 4 bytes, got %d", len(d.Aux))
	}

	data := make([]byte, deviceIDMinLength, deviceIDMinLength+4)
	data[0] = d.DeviceID
	data[1] = d.Revision & 0x0f
	if d.ProvidesSDRs {
		data[1] |= 0x80
	}
	data[2] = d.FirmwareMajor & 0x7f
	if !d.Available {
		data[2] |= 0x80
	}
	data[3] = toBCD(d.FirmwareMinor)
	data[4] = d.IPMIMinor<<4 | d.IPMIMajor&0x0f
	data[5] = d.AdditionalSupport
	data[6] = byte(d.ManufacturerID)
	data[7] = byte(d.ManufacturerID >> 8)
	data[8] = byte(d.ManufacturerID>>16) & 0x0f
	binary.LittleEndian.PutUint16(data[9:11], d.ProductID)
	return append(data, d.Aux...), nil
}

func fromBCD(b byte) uint8 {
	return (b>>4)*10 + b&0x0f
}

func toBCD(v uint8) byte {
	return (v/10%10)<<4 | v%10
}
