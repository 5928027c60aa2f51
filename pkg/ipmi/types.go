package ipmi

import "fmt"

// Network functions.
const (
	NetFnChassis     uint8 = 0x00
	NetFnSensorEvent uint8 = 0x04
	NetFnApp         uint8 = 0x06
	NetFnStorage     uint8 = 0x0a
)

// Commands used by Conn.
const (
	CmdGetDeviceID          uint8 = 0x01
	CmdColdReset            uint8 = 0x02
	CmdWarmReset            uint8 = 0x03
	CmdGetSensorReading     uint8 = 0x2d
	CmdGetSDRRepositoryInfo uint8 = 0x20
	CmdReserveSDRRepository uint8 = 0x22
	CmdGetSDR               uint8 = 0x23
	CmdGetSELInfo           uint8 = 0x40
	CmdReserveSEL           uint8 = 0x42
	CmdGetSELEntry          uint8 = 0x43
)

// DefaultTargetAddress is the IPMB slave address of the BMC.
const DefaultTargetAddress uint8 = 0x20

// Target identifies the controller a request is addressed to.
type Target struct {
	Address uint8
}

// NewTarget returns a target for the given IPMB address.
func NewTarget(address uint8) Target {
	return Target{Address: address}
}

// Request is a raw IPMI request.
type Request struct {
	NetFn   uint8
	Command uint8
	Data    []byte
}

func (r Request) String() string {
	return fmt.Sprintf("netfn=0x%02x cmd=0x%02x", r.NetFn, r.Command)
}

// Response is a raw IPMI response. Data excludes the completion code.
type Response struct {
	CompletionCode uint8
	Data           []byte
}
