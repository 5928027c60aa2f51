package ipmi

import "fmt"

// CompletionCodeError is a negative acknowledgement from the controller.
type CompletionCodeError struct {
	Code    uint8
	NetFn   uint8
	Command uint8
}

func (e *CompletionCodeError) Error() string {
	return fmt.Sprintf("completion code 0x%02x (%s) for netfn 0x%02x cmd 0x%02x",
		e.Code, CompletionCodeDescription(e.Code), e.NetFn, e.Command)
}

// TimeoutError means no response arrived before the transport's deadline.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	if e.Op == "" {
		return "timed out waiting for response"
	}
	return "timed out waiting for response to " + e.Op
}

// ValueError reports malformed response data or a value that can't be
// converted.
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string {
	return e.Msg
}

func valueErrorf(format string, args ...interface{}) *ValueError {
	return &ValueError{Msg: fmt.Sprintf(format, args...)}
}

// SessionError reports a failure to establish or close a network session.
type SessionError struct {
	Host  string
	Cause error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session with %s: %v", e.Host, e.Cause)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

var completionCodes = map[uint8]string{
	0x00: "command completed normally",
	0xc0: "node busy",
	0xc1: "invalid command",
	0xc2: "command invalid for given LUN",
	0xc3: "timeout while processing command",
	0xc4: "out of space",
	0xc5: "reservation cancelled or invalid",
	0xc6: "request data truncated",
	0xc7: "request data length invalid",
	0xc8: "request data field length limit exceeded",
	0xc9: "parameter out of range",
	0xca: "cannot return number of requested data bytes",
	0xcb: "requested sensor, data, or record not present",
	0xcc: "invalid data field in request",
	0xcd: "command illegal for specified sensor or record type",
	0xce: "command response could not be provided",
	0xcf: "cannot execute duplicated request",
	0xd0: "SDR repository in update mode",
	0xd1: "device in firmware update mode",
	0xd2: "BMC initialization in progress",
	0xd3: "destination unavailable",
	0xd4: "insufficient privilege level",
	0xd5: "command not supported in present state",
	0xd6: "command sub-function disabled or unavailable",
	0xff: "unspecified error",
}

// CompletionCodeDescription returns the standard meaning of a completion code.
func CompletionCodeDescription(code uint8) string {
	if desc, ok := completionCodes[code]; ok {
		return desc
	}
	if code >= 0x01 && code <= 0x7e {
		return "device specific (OEM) completion code"
	}
	if code >= 0x80 && code <= 0xbe {
		return "command specific completion code"
	}
	return "unknown completion code"
}
