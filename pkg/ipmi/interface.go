package ipmi

// Interface is a transport that carries raw requests to a controller.
// Network transports also take part in session setup and teardown.
type Interface interface {
	// Name identifies the transport (e.g. "ipmitool", "sim").
	Name() string

	// SendMessage sends req to target and waits for the response.
	SendMessage(target Target, req Request) (Response, error)

	// EstablishSession opens the network session described by s.
	EstablishSession(s *Session) error

	// CloseSession releases a session opened by EstablishSession.
	CloseSession(s *Session) error

	// Close releases transport resources. It does not close sessions.
	Close() error
}
