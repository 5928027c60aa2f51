package ipmi

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	selEntryLength = 16

	// SELRecordTypeSystemEvent is the standard system event record.
	SELRecordTypeSystemEvent uint8 = 0x02

	// Timestamps at or below this value count seconds since controller
	// initialization rather than since the epoch.
	selPreInitTimestamp uint32 = 0x20000000
)

// SELEntry is one System Event Log record.
type SELEntry struct {
	ID         uint16
	RecordType uint8
	Timestamp  uint32

	GeneratorID      uint16
	EvMRev           uint8
	SensorType       uint8
	SensorNumber     uint8
	Deassertion      bool
	EventReadingType uint8
	EventData        [3]byte

	// OEM holds the payload of OEM record types (bytes 3..15 of the record).
	OEM []byte
}

// Time returns the event time, or the zero time for pre-init timestamps.
func (e *SELEntry) Time() time.Time {
	if e.Timestamp <= selPreInitTimestamp {
		return time.Time{}
	}
	return time.Unix(int64(e.Timestamp), 0).UTC()
}

func (e *SELEntry) timeString() string {
	if e.Timestamp <= selPreInitTimestamp {
		return fmt.Sprintf("pre-init +%ds", e.Timestamp)
	}
	return e.Time().Format("2006-01-02 15:04:05")
}

func (e *SELEntry) String() string {
	switch {
	case e.RecordType == SELRecordTypeSystemEvent:
		direction := "Asserted"
		if e.Deassertion {
			direction = "Deasserted"
		}
		return fmt.Sprintf("0x%04x | %s | sensor type 0x%02x #0x%02x | %s | data %02x %02x %02x",
			e.ID, e.timeString(), e.SensorType, e.SensorNumber, direction,
			e.EventData[0], e.EventData[1], e.EventData[2])
	case e.RecordType >= 0xc0 && e.RecordType <= 0xdf:
		return fmt.Sprintf("0x%04x | %s | OEM record 0x%02x | % x",
			e.ID, e.timeString(), e.RecordType, e.OEM)
	default:
		return fmt.Sprintf("0x%04x | OEM record 0x%02x | % x", e.ID, e.RecordType, e.OEM)
	}
}

// UnmarshalBinary decodes a 16-byte SEL record.
func (e *SELEntry) UnmarshalBinary(data []byte) error {
	if len(data) < selEntryLength {
		return valueErrorf("sel entry too short: %d bytes", len(data))
	}

	*e = SELEntry{
		ID:         binary.LittleEndian.Uint16(data[0:2]),
		RecordType: data[2],
	}

	switch {
	case e.RecordType == SELRecordTypeSystemEvent:
		e.Timestamp = binary.LittleEndian.Uint32(data[3:7])
		e.GeneratorID = binary.LittleEndian.Uint16(data[7:9])
		e.EvMRev = data[9]
		e.SensorType = data[10]
		e.SensorNumber = data[11]
		e.Deassertion = data[12]&0x80 != 0
		e.EventReadingType = data[12] & 0x7f
		copy(e.EventData[:], data[13:16])
	case e.RecordType >= 0xc0 && e.RecordType <= 0xdf:
		e.Timestamp = binary.LittleEndian.Uint32(data[3:7])
		e.OEM = append([]byte(nil), data[7:16]...)
	default:
		e.OEM = append([]byte(nil), data[3:16]...)
	}
	return nil
}

// MarshalBinary encodes e as a 16-byte SEL record.
func (e *SELEntry) MarshalBinary() ([]byte, error) {
	data := make([]byte, selEntryLength)
	binary.LittleEndian.PutUint16(data[0:2], e.ID)
	data[2] = e.RecordType

	switch {
	case e.RecordType == SELRecordTypeSystemEvent:
		binary.LittleEndian.PutUint32(data[3:7], e.Timestamp)
		binary.LittleEndian.PutUint16(data[7:9], e.GeneratorID)
		data[9] = e.EvMRev
		data[10] = e.SensorType
		data[11] = e.SensorNumber
		data[12] = e.EventReadingType & 0x7f
		if e.Deassertion {
			data[12] |= 0x80
		}
		copy(data[13:16], e.EventData[:])
	case e.RecordType >= 0xc0 && e.RecordType <= 0xdf:
		binary.LittleEndian.PutUint32(data[3:7], e.Timestamp)
		copy(data[7:16], e.OEM)
	default:
		copy(data[3:16], e.OEM)
	}
	return data, nil
}
