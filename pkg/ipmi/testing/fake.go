// Package testing provides a hand-written ipmi.Connection fake that records
// every call, for tests of code that drives a controller.
package testing

import (
	"iter"
	"sync"

	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
)

// Operation names used by Calls, Errors and PanicOn.
const (
	OpGetDeviceID      = "GetDeviceID"
	OpColdReset        = "ColdReset"
	OpWarmReset        = "WarmReset"
	OpGetSDR           = "GetSDR"
	OpSDREntries       = "SDREntries"
	OpGetSensorReading = "GetSensorReading"
	OpSELEntries       = "SELEntries"
	OpClose            = "Close"
)

// Connection is a fake ipmi.Connection. Fields may be set directly before
// use; the zero value answers every query with empty results.
type Connection struct {
	mu sync.Mutex

	Device   *ipmi.DeviceID
	SDRs     []*ipmi.SDR
	Readings map[uint8]uint8
	SEL      []*ipmi.SELEntry

	// Errors fails the named operation. For SDREntries and SELEntries the
	// error is yielded after the configured records.
	Errors map[string]error

	// PanicOn makes the named operation panic.
	PanicOn string

	FakeSession *Session

	target ipmi.Target
	calls  []string
	closed int
}

var _ ipmi.Connection = (*Connection)(nil)

// NewConnection returns a fake addressed to the default target.
func NewConnection() *Connection {
	return &Connection{
		Readings:    make(map[uint8]uint8),
		Errors:      make(map[string]error),
		FakeSession: &Session{},
		target:      ipmi.NewTarget(ipmi.DefaultTargetAddress),
	}
}

func (c *Connection) enter(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, op)
	if c.PanicOn == op {
		panic("fake connection: " + op)
	}
	return c.Errors[op]
}

// Calls returns the operations invoked so far, in order.
func (c *Connection) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// CloseCount reports how many times Close was called.
func (c *Connection) CloseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Connection) GetDeviceID() (*ipmi.DeviceID, error) {
	if err := c.enter(OpGetDeviceID); err != nil {
		return nil, err
	}
	if c.Device == nil {
		return &ipmi.DeviceID{}, nil
	}
	return c.Device, nil
}

func (c *Connection) ColdReset() error {
	return c.enter(OpColdReset)
}

func (c *Connection) WarmReset() error {
	return c.enter(OpWarmReset)
}

func (c *Connection) GetSDR(id uint16) (*ipmi.SDR, error) {
	if err := c.enter(OpGetSDR); err != nil {
		return nil, err
	}
	for _, s := range c.SDRs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, &ipmi.CompletionCodeError{Code: 0xcb, NetFn: ipmi.NetFnStorage, Command: ipmi.CmdGetSDR}
}

func (c *Connection) SDREntries() iter.Seq2[*ipmi.SDR, error] {
	return func(yield func(*ipmi.SDR, error) bool) {
		err := c.enter(OpSDREntries)
		for _, s := range c.SDRs {
			if !yield(s, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func (c *Connection) GetSensorReading(number uint8) (uint8, error) {
	if err := c.enter(OpGetSensorReading); err != nil {
		return 0, err
	}
	raw, ok := c.Readings[number]
	if !ok {
		return 0, &ipmi.ValueError{Msg: "reading unavailable"}
	}
	return raw, nil
}

func (c *Connection) SELEntries() iter.Seq2[*ipmi.SELEntry, error] {
	return func(yield func(*ipmi.SELEntry, error) bool) {
		err := c.enter(OpSELEntries)
		for _, e := range c.SEL {
			if !yield(e, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func (c *Connection) SetTarget(t ipmi.Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
}

func (c *Connection) Target() ipmi.Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *Connection) Session() ipmi.SessionControl {
	return c.FakeSession
}

func (c *Connection) Close() error {
	err := c.enter(OpClose)
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
	return err
}

// Session is a fake ipmi.SessionControl that counts Establish and Close.
type Session struct {
	mu sync.Mutex

	Host     string
	Port     int
	User     string
	Password string
	RMCP     bool

	EstablishErr error
	CloseErr     error

	establishCalls int
	closeCalls     int
	established    bool
}

var _ ipmi.SessionControl = (*Session)(nil)

func (s *Session) SetSessionTypeRMCP(host string, port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RMCP = true
	s.Host = host
	s.Port = port
}

func (s *Session) SetAuthTypeUser(user, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.User = user
	s.Password = password
}

func (s *Session) Establish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.establishCalls++
	if s.EstablishErr != nil {
		return s.EstablishErr
	}
	s.established = true
	return nil
}

// Close counts every call, including ones on a session that isn't open.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	s.established = false
	return s.CloseErr
}

func (s *Session) Established() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.established
}

// EstablishCalls reports how many times Establish was called.
func (s *Session) EstablishCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.establishCalls
}

// CloseCalls reports how many times Close was called.
func (s *Session) CloseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}
