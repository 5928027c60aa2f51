// Package sim is an in-process controller that answers raw IPMI requests
// from a YAML fixture. It backs "-I sim" and the end-to-end tests.
package sim

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/rileyhilliard/ipmitool/internal/logger"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
)

type commandKey struct {
	netfn   uint8
	command uint8
}

type sdrRecord struct {
	id          uint16
	number      uint8
	sensor      bool
	data        []byte
	reading     uint8
	unavailable bool
}

type selRecord struct {
	id   uint16
	data []byte
}

// Stats counts what the simulator has been asked to do.
type Stats struct {
	Requests       int
	SessionsOpened int
	SessionsClosed int
	ColdResets     int
	WarmResets     int
}

// Simulator implements ipmi.Interface against a fixture.
type Simulator struct {
	mu  sync.Mutex
	log logger.Logger

	address     uint8
	device      []byte
	credentials *CredentialsFixture
	sdrs        []sdrRecord
	sel         []selRecord
	failures    map[commandKey]FailureFixture

	sdrReservation uint16
	selReservation uint16
	sessionOpen    bool
	closed         bool
	stats          Stats
}

var _ ipmi.Interface = (*Simulator)(nil)

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = logger.WithComponent(l, "sim")
		}
	}
}

// New builds a simulator from f, encoding every record up front.
func New(f *Fixture, opts ...Option) (*Simulator, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		log:         logger.Noop(),
		address:     f.Address,
		credentials: f.Credentials,
		failures:    make(map[commandKey]FailureFixture),
	}
	for _, opt := range opts {
		opt(s)
	}

	device, err := f.Device.deviceID().MarshalBinary()
	if err != nil {
		return nil, err
	}
	s.device = device

	for _, r := range f.SDRs {
		rec := r.record()
		data, err := rec.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("sdr 0x%04x: %w", r.ID, err)
		}
		s.sdrs = append(s.sdrs, sdrRecord{
			id:          r.ID,
			number:      r.Number,
			sensor:      rec.Type == ipmi.RecordTypeFullSensor || rec.Type == ipmi.RecordTypeCompactSensor,
			data:        data,
			reading:     r.Reading,
			unavailable: r.Unavailable,
		})
	}

	for _, e := range f.SEL {
		data, err := e.entry().MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("sel 0x%04x: %w", e.ID, err)
		}
		s.sel = append(s.sel, selRecord{id: e.ID, data: data})
	}

	for _, fail := range f.Failures {
		s.failures[commandKey{fail.NetFn, fail.Command}] = fail
	}
	return s, nil
}

func (s *Simulator) Name() string { return "sim" }

// Stats returns a snapshot of the request counters.
func (s *Simulator) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// SessionOpen reports whether a session is currently established.
func (s *Simulator) SessionOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionOpen
}

func (s *Simulator) EstablishSession(sess *ipmi.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.credentials; c != nil && (c.User != sess.User() || c.Password != sess.Password()) {
		s.log.Debug("rejecting session for user %q", sess.User())
		return fmt.Errorf("authentication failed for user %q", sess.User())
	}
	s.sessionOpen = true
	s.stats.SessionsOpened++
	return nil
}

func (s *Simulator) CloseSession(*ipmi.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("simulator is closed")
	}
	if !s.sessionOpen {
		return fmt.Errorf("no open session")
	}
	s.sessionOpen = false
	s.stats.SessionsClosed++
	return nil
}

func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Simulator) SendMessage(target ipmi.Target, req ipmi.Request) (ipmi.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ipmi.Response{}, fmt.Errorf("simulator is closed")
	}
	s.stats.Requests++
	s.log.Debug("%s target=0x%02x data=[% x]", req, target.Address, req.Data)

	if target.Address != s.address {
		return ipmi.Response{}, &ipmi.TimeoutError{Op: req.String()}
	}
	if fail, ok := s.failures[commandKey{req.NetFn, req.Command}]; ok {
		if fail.Timeout {
			return ipmi.Response{}, &ipmi.TimeoutError{Op: req.String()}
		}
		return ipmi.Response{CompletionCode: fail.CompletionCode}, nil
	}

	return s.handle(req), nil
}

func (s *Simulator) handle(req ipmi.Request) ipmi.Response {
	switch (commandKey{req.NetFn, req.Command}) {
	case commandKey{ipmi.NetFnApp, ipmi.CmdGetDeviceID}:
		return ok(s.device)
	case commandKey{ipmi.NetFnApp, ipmi.CmdColdReset}:
		s.stats.ColdResets++
		return ok(nil)
	case commandKey{ipmi.NetFnApp, ipmi.CmdWarmReset}:
		s.stats.WarmResets++
		return ok(nil)
	case commandKey{ipmi.NetFnSensorEvent, ipmi.CmdGetSensorReading}:
		return s.sensorReading(req.Data)
	case commandKey{ipmi.NetFnStorage, ipmi.CmdGetSDRRepositoryInfo}:
		return ok(repositoryInfo(len(s.sdrs)))
	case commandKey{ipmi.NetFnStorage, ipmi.CmdReserveSDRRepository}:
		s.sdrReservation++
		return ok(le16(s.sdrReservation))
	case commandKey{ipmi.NetFnStorage, ipmi.CmdGetSDR}:
		return s.getSDR(req.Data)
	case commandKey{ipmi.NetFnStorage, ipmi.CmdGetSELInfo}:
		return ok(repositoryInfo(len(s.sel)))
	case commandKey{ipmi.NetFnStorage, ipmi.CmdReserveSEL}:
		s.selReservation++
		return ok(le16(s.selReservation))
	case commandKey{ipmi.NetFnStorage, ipmi.CmdGetSELEntry}:
		return s.getSELEntry(req.Data)
	default:
		return fail(0xc1)
	}
}

func (s *Simulator) sensorReading(data []byte) ipmi.Response {
	if len(data) != 1 {
		return fail(0xc7)
	}
	for _, r := range s.sdrs {
		if !r.sensor || r.number != data[0] {
			continue
		}
		if r.unavailable {
			return ok([]byte{0x00, 0x20, 0x00})
		}
		// event messages and scanning enabled
		return ok([]byte{r.reading, 0xc0, 0x00})
	}
	return fail(0xcb)
}

func (s *Simulator) getSDR(data []byte) ipmi.Response {
	if len(data) != 6 {
		return fail(0xc7)
	}
	reservation := binary.LittleEndian.Uint16(data[0:2])
	id := binary.LittleEndian.Uint16(data[2:4])
	offset, count := int(data[4]), int(data[5])

	if offset > 0 && reservation != s.sdrReservation {
		return fail(0xc5)
	}

	i := s.sdrIndex(id)
	if i < 0 {
		return fail(0xcb)
	}
	next := ipmi.LastRecordID
	if i+1 < len(s.sdrs) {
		next = s.sdrs[i+1].id
	}
	return ok(append(le16(next), window(s.sdrs[i].data, offset, count)...))
}

func (s *Simulator) sdrIndex(id uint16) int {
	if len(s.sdrs) == 0 {
		return -1
	}
	if id == 0 {
		return 0
	}
	for i, r := range s.sdrs {
		if r.id == id {
			return i
		}
	}
	return -1
}

func (s *Simulator) getSELEntry(data []byte) ipmi.Response {
	if len(data) != 6 {
		return fail(0xc7)
	}
	id := binary.LittleEndian.Uint16(data[2:4])
	offset, count := int(data[4]), int(data[5])

	i := -1
	switch {
	case len(s.sel) == 0:
	case id == 0:
		i = 0
	case id == ipmi.LastRecordID:
		i = len(s.sel) - 1
	default:
		for j, r := range s.sel {
			if r.id == id {
				i = j
			}
		}
	}
	if i < 0 {
		return fail(0xcb)
	}

	next := ipmi.LastRecordID
	if i+1 < len(s.sel) {
		next = s.sel[i+1].id
	}
	return ok(append(le16(next), window(s.sel[i].data, offset, count)...))
}

// window returns count bytes of data from offset; 0xff means "to the end".
func window(data []byte, offset, count int) []byte {
	if offset >= len(data) {
		return nil
	}
	end := len(data)
	if count != 0xff {
		end = min(offset+count, len(data))
	}
	return append([]byte(nil), data[offset:end]...)
}

func repositoryInfo(entries int) []byte {
	info := make([]byte, 14)
	info[0] = 0x51
	binary.LittleEndian.PutUint16(info[1:3], uint16(entries))
	binary.LittleEndian.PutUint16(info[3:5], 0xffff)
	return info
}

func le16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func ok(data []byte) ipmi.Response {
	return ipmi.Response{Data: append([]byte(nil), data...)}
}

func fail(code uint8) ipmi.Response {
	return ipmi.Response{CompletionCode: code}
}
