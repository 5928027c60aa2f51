package ipmi

import (
	"fmt"

	"github.com/rileyhilliard/ipmitool/internal/logger"
)

// SessionType selects how requests reach the controller.
type SessionType int

const (
	// SessionTypeNone sends requests over the transport without a session.
	SessionTypeNone SessionType = iota
	// SessionTypeRMCP uses an authenticated RMCP+ LAN session.
	SessionTypeRMCP
)

// DefaultRMCPPort is the standard RMCP UDP port.
const DefaultRMCPPort = 623

// SessionControl is the session lifecycle exposed by a Connection.
type SessionControl interface {
	SetSessionTypeRMCP(host string, port int)
	SetAuthTypeUser(user, password string)
	Establish() error
	Close() error
	Established() bool
}

// Session holds network session parameters and state for one connection.
type Session struct {
	iface Interface
	log   logger.Logger

	typ         SessionType
	host        string
	port        int
	user        string
	password    string
	established bool
}

func newSession(iface Interface, log logger.Logger) *Session {
	return &Session{iface: iface, log: log, port: DefaultRMCPPort}
}

// SetSessionTypeRMCP configures a LAN session to host. A zero port selects
// DefaultRMCPPort.
func (s *Session) SetSessionTypeRMCP(host string, port int) {
	if port == 0 {
		port = DefaultRMCPPort
	}
	s.typ = SessionTypeRMCP
	s.host = host
	s.port = port
}

// SetAuthTypeUser sets the credentials used by Establish.
func (s *Session) SetAuthTypeUser(user, password string) {
	s.user = user
	s.password = password
}

func (s *Session) Type() SessionType { return s.typ }
func (s *Session) Host() string      { return s.host }
func (s *Session) Port() int         { return s.port }
func (s *Session) User() string      { return s.user }
func (s *Session) Password() string  { return s.password }

// Established reports whether the session is open.
func (s *Session) Established() bool {
	return s.established
}

// Establish opens the session. Calling it on an open session is a no-op.
func (s *Session) Establish() error {
	if s.established {
		return nil
	}
	if s.typ != SessionTypeRMCP {
		return &SessionError{Host: s.host, Cause: fmt.Errorf("no session type configured")}
	}

	s.log.Debug("establishing session with %s:%d as %q", s.host, s.port, s.user)
	if err := s.iface.EstablishSession(s); err != nil {
		return s.wrap(err)
	}
	s.established = true
	s.log.Debug("session with %s established", s.host)
	return nil
}

// Close releases an open session. It is a no-op if the session was never
// established, so it is safe to defer right after Establish succeeds.
func (s *Session) Close() error {
	if !s.established {
		return nil
	}
	s.established = false

	s.log.Debug("closing session with %s", s.host)
	if err := s.iface.CloseSession(s); err != nil {
		return s.wrap(err)
	}
	return nil
}

func (s *Session) wrap(err error) error {
	if se, ok := err.(*SessionError); ok {
		return se
	}
	return &SessionError{Host: s.host, Cause: err}
}
