package ipmi

import (
	"encoding/binary"
	"iter"

	"github.com/rileyhilliard/ipmitool/internal/logger"
)

// Connection is the client surface used by commands.
type Connection interface {
	GetDeviceID() (*DeviceID, error)
	ColdReset() error
	WarmReset() error

	// GetSDR reads one record from the SDR repository.
	GetSDR(id uint16) (*SDR, error)
	// SDREntries iterates the SDR repository from the first record. Each
	// call starts a fresh pass.
	SDREntries() iter.Seq2[*SDR, error]
	// GetSensorReading returns the raw reading of a sensor.
	GetSensorReading(number uint8) (uint8, error)
	// SELEntries iterates the System Event Log.
	SELEntries() iter.Seq2[*SELEntry, error]

	SetTarget(t Target)
	Target() Target
	Session() SessionControl
	Close() error
}

const sdrChunkSize = 16

// Conn implements Connection on top of an Interface.
type Conn struct {
	iface   Interface
	target  Target
	session *Session
	log     logger.Logger
}

var _ Connection = (*Conn)(nil)

// Option configures a Conn.
type Option func(*Conn)

// WithLogger sets the logger used for request tracing and session events.
func WithLogger(l logger.Logger) Option {
	return func(c *Conn) {
		c.log = logger.WithComponent(l, "ipmi")
	}
}

// NewConnection creates a connection bound to iface, addressed to the BMC
// at DefaultTargetAddress.
func NewConnection(iface Interface, opts ...Option) *Conn {
	c := &Conn{
		iface:  iface,
		target: NewTarget(DefaultTargetAddress),
		log:    logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = newSession(iface, c.log)
	return c
}

func (c *Conn) SetTarget(t Target) { c.target = t }
func (c *Conn) Target() Target     { return c.target }

// Session returns the connection's session. It is shared by every call on c.
func (c *Conn) Session() SessionControl { return c.session }

// Close releases the transport. Close the session first.
func (c *Conn) Close() error {
	return c.iface.Close()
}

// RawCommand sends a request and returns the response data, failing with a
// *CompletionCodeError if the controller rejects it.
func (c *Conn) RawCommand(netfn, cmd uint8, data ...byte) ([]byte, error) {
	req := Request{NetFn: netfn, Command: cmd, Data: data}
	c.log.Debug("request %s target=0x%02x data=[% x]", req, c.target.Address, data)

	rsp, err := c.iface.SendMessage(c.target, req)
	if err != nil {
		return nil, err
	}

	c.log.Debug("response %s cc=0x%02x data=[% x]", req, rsp.CompletionCode, rsp.Data)
	if rsp.CompletionCode != 0 {
		return nil, &CompletionCodeError{Code: rsp.CompletionCode, NetFn: netfn, Command: cmd}
	}
	return rsp.Data, nil
}

func (c *Conn) GetDeviceID() (*DeviceID, error) {
	data, err := c.RawCommand(NetFnApp, CmdGetDeviceID)
	if err != nil {
		return nil, err
	}
	var id DeviceID
	if err := id.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Conn) ColdReset() error {
	_, err := c.RawCommand(NetFnApp, CmdColdReset)
	return err
}

func (c *Conn) WarmReset() error {
	_, err := c.RawCommand(NetFnApp, CmdWarmReset)
	return err
}

func (c *Conn) GetSensorReading(number uint8) (uint8, error) {
	data, err := c.RawCommand(NetFnSensorEvent, CmdGetSensorReading, number)
	if err != nil {
		return 0, err
	}
	if len(data) < 2 {
		return 0, valueErrorf("sensor reading response too short: %d bytes", len(data))
	}
	if data[1]&0x20 != 0 {
		return 0, valueErrorf("reading of sensor 0x%02x is unavailable", number)
	}
	return data[0], nil
}

func (c *Conn) GetSDR(id uint16) (*SDR, error) {
	reservation, err := c.reserve(CmdReserveSDRRepository)
	if err != nil {
		return nil, err
	}
	rec, _, err := c.getSDR(reservation, id)
	return rec, err
}

func (c *Conn) SDREntries() iter.Seq2[*SDR, error] {
	return func(yield func(*SDR, error) bool) {
		count, err := c.recordCount(CmdGetSDRRepositoryInfo)
		if err != nil {
			yield(nil, err)
			return
		}
		if count == 0 {
			return
		}

		reservation, err := c.reserve(CmdReserveSDRRepository)
		if err != nil {
			yield(nil, err)
			return
		}

		limit := walkLimit(count)
		for id, n := uint16(0), 0; id != LastRecordID; n++ {
			if n == limit {
				yield(nil, valueErrorf("sdr chain did not end after %d records", n))
				return
			}
			rec, next, err := c.getSDR(reservation, id)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
			if next == id {
				yield(nil, valueErrorf("sdr 0x%04x points at itself as next record", id))
				return
			}
			id = next
		}
	}
}

func (c *Conn) SELEntries() iter.Seq2[*SELEntry, error] {
	return func(yield func(*SELEntry, error) bool) {
		count, err := c.recordCount(CmdGetSELInfo)
		if err != nil {
			yield(nil, err)
			return
		}
		if count == 0 {
			return
		}

		reservation, err := c.reserve(CmdReserveSEL)
		if err != nil {
			yield(nil, err)
			return
		}

		limit := walkLimit(count)
		for id, n := uint16(0), 0; id != LastRecordID; n++ {
			if n == limit {
				yield(nil, valueErrorf("sel chain did not end after %d entries", n))
				return
			}
			data, err := c.RawCommand(NetFnStorage, CmdGetSELEntry,
				byte(reservation), byte(reservation>>8), byte(id), byte(id>>8), 0, 0xff)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(data) < 2+selEntryLength {
				yield(nil, valueErrorf("sel entry response too short: %d bytes", len(data)))
				return
			}

			var entry SELEntry
			if err := entry.UnmarshalBinary(data[2:]); err != nil {
				yield(nil, err)
				return
			}
			if !yield(&entry, nil) {
				return
			}

			next := binary.LittleEndian.Uint16(data[0:2])
			if next == id {
				yield(nil, valueErrorf("sel entry 0x%04x points at itself as next record", id))
				return
			}
			id = next
		}
	}
}

// walkSlack allows for records added while a walk is in progress.
const walkSlack = 16

// walkLimit bounds a record walk so a chain whose next-record ids loop
// ends with an error.
func walkLimit(count uint16) int {
	return int(count) + walkSlack
}

// recordCount reads the entry count from Get SDR Repository Info or Get
// SEL Info.
func (c *Conn) recordCount(cmd uint8) (uint16, error) {
	data, err := c.RawCommand(NetFnStorage, cmd)
	if err != nil {
		return 0, err
	}
	if len(data) < 3 {
		return 0, valueErrorf("repository info response too short: %d bytes", len(data))
	}
	return binary.LittleEndian.Uint16(data[1:3]), nil
}

// reserve issues a Reserve SDR Repository or Reserve SEL command.
func (c *Conn) reserve(cmd uint8) (uint16, error) {
	data, err := c.RawCommand(NetFnStorage, cmd)
	if err != nil {
		return 0, err
	}
	if len(data) < 2 {
		return 0, valueErrorf("reservation response too short: %d bytes", len(data))
	}
	return binary.LittleEndian.Uint16(data[0:2]), nil
}

// getSDR reads the record header, then the body in chunks, and returns the
// decoded record with the ID of the next one.
func (c *Conn) getSDR(reservation, id uint16) (*SDR, uint16, error) {
	data, next, err := c.getSDRChunk(reservation, id, 0, sdrHeaderLength)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < sdrHeaderLength {
		return nil, 0, valueErrorf("sdr 0x%04x header too short: %d bytes", id, len(data))
	}
	data = append([]byte(nil), data[:sdrHeaderLength]...)

	length := int(data[4])
	if sdrHeaderLength+length > 0xff {
		return nil, 0, valueErrorf("sdr 0x%04x length %d out of range", id, length)
	}

	for read := 0; read < length; {
		count := min(sdrChunkSize, length-read)
		chunk, _, err := c.getSDRChunk(reservation, id, uint8(sdrHeaderLength+read), uint8(count))
		if err != nil {
			return nil, 0, err
		}
		if len(chunk) == 0 {
			return nil, 0, valueErrorf("sdr 0x%04x returned no data at offset %d", id, sdrHeaderLength+read)
		}
		chunk = chunk[:min(len(chunk), count)]
		data = append(data, chunk...)
		read += len(chunk)
	}

	var rec SDR
	if err := rec.UnmarshalBinary(data); err != nil {
		return nil, 0, err
	}
	return &rec, next, nil
}

func (c *Conn) getSDRChunk(reservation, id uint16, offset, count uint8) ([]byte, uint16, error) {
	data, err := c.RawCommand(NetFnStorage, CmdGetSDR,
		byte(reservation), byte(reservation>>8), byte(id), byte(id>>8), offset, count)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < 2 {
		return nil, 0, valueErrorf("get sdr response too short: %d bytes", len(data))
	}
	return data[2:], binary.LittleEndian.Uint16(data[0:2]), nil
}
