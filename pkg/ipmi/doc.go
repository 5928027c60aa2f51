// Package ipmi is a small management-controller client. It encodes the
// handful of IPMI requests the CLI needs, decodes their responses, and hands
// the raw request/response exchange to a pluggable transport (Interface).
//
// A Conn is bound to one transport and one target address:
//
//	conn := ipmi.NewConnection(iface, ipmi.WithLogger(log))
//	conn.SetTarget(ipmi.NewTarget(0x20))
//	id, err := conn.GetDeviceID()
//
// Network transports need a session first:
//
//	s := conn.Session()
//	s.SetSessionTypeRMCP("bmc01", 623)
//	s.SetAuthTypeUser("admin", "secret")
//	if err := s.Establish(); err != nil { ... }
//	defer s.Close()
//
// Failures reported by the controller surface as *CompletionCodeError; a
// transport deadline surfaces as *TimeoutError. Malformed or unconvertible
// data surfaces as *ValueError.
package ipmi
