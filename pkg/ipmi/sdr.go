package ipmi

import (
	"encoding/binary"
	"math"
	"strings"
)

// RecordType is the SDR record type from the record header.
type RecordType uint8

const (
	RecordTypeFullSensor       RecordType = 0x01
	RecordTypeCompactSensor    RecordType = 0x02
	RecordTypeEventOnly        RecordType = 0x03
	RecordTypeFRUDeviceLocator RecordType = 0x11
	RecordTypeMCDeviceLocator  RecordType = 0x12
)

func (t RecordType) String() string {
	switch t {
	case RecordTypeFullSensor:
		return "full sensor"
	case RecordTypeCompactSensor:
		return "compact sensor"
	case RecordTypeEventOnly:
		return "event-only sensor"
	case RecordTypeFRUDeviceLocator:
		return "FRU device locator"
	case RecordTypeMCDeviceLocator:
		return "management controller locator"
	default:
		return "unknown"
	}
}

const (
	sdrHeaderLength = 5
	sdrVersion      = 0x51

	// Offset of the ID string type/length byte per record type.
	fullIDOffset       = 47
	compactIDOffset    = 31
	eventOnlyIDOffset  = 16
	fruLocatorIDOffset = 15
	mcLocatorIDOffset  = 15

	// LastRecordID terminates SDR and SEL iteration.
	LastRecordID uint16 = 0xffff
)

// Analog data formats from the sensor units byte.
const (
	AnalogUnsigned       uint8 = 0
	AnalogOnesComplement uint8 = 1
	AnalogTwosComplement uint8 = 2
	AnalogNone           uint8 = 3
)

// Linearization functions.
const (
	LinearLinear uint8 = iota
	LinearLn
	LinearLog10
	LinearLog2
	LinearE
	LinearExp10
	LinearExp2
	LinearInverse
	LinearSqr
	LinearCube
	LinearSqrt
	LinearCubeRoot
)

// Conversion holds the reading conversion factors of a full sensor record:
// y = L[(M*x + B*10^BExp) * 10^RExp].
type Conversion struct {
	AnalogFormat  uint8
	Linearization uint8
	M             int16
	B             int16
	RExp          int8
	BExp          int8
}

// SDR is a decoded sensor data record.
type SDR struct {
	ID      uint16
	Version uint8
	Type    RecordType

	OwnerID          uint8
	OwnerLUN         uint8
	Number           uint8
	EntityID         uint8
	EntityInstance   uint8
	SensorType       uint8
	EventReadingType uint8

	DeviceIDString string

	// Conversion is set for full sensor records only.
	Conversion *Conversion
}

// HasReading reports whether the record describes a sensor with a
// convertible analog reading.
func (s *SDR) HasReading() bool {
	return s.Type == RecordTypeFullSensor && s.Conversion != nil
}

// ConvertSensorReading turns a raw reading into an engineering value.
func (s *SDR) ConvertSensorReading(raw uint8) (float64, error) {
	if !s.HasReading() {
		return 0, valueErrorf("record 0x%04x has no analog reading", s.ID)
	}
	c := s.Conversion

	var x float64
	switch c.AnalogFormat {
	case AnalogUnsigned:
		x = float64(raw)
	case AnalogOnesComplement:
		if raw&0x80 != 0 {
			x = -float64(^raw & 0x7f)
		} else {
			x = float64(raw)
		}
	case AnalogTwosComplement:
		x = float64(int8(raw))
	default:
		return 0, valueErrorf("record 0x%04x has no analog reading", s.ID)
	}

	y := scale(float64(c.M)*x+scale(float64(c.B), c.BExp), c.RExp)
	return linearize(c.Linearization, y)
}

// scale returns v * 10^exp, dividing for negative exponents so that values
// such as 330 * 10^-2 come out as 3.3.
func scale(v float64, exp int8) float64 {
	if exp < 0 {
		return v / math.Pow10(-int(exp))
	}
	return v * math.Pow10(int(exp))
}

func linearize(l uint8, y float64) (float64, error) {
	switch l {
	case LinearLinear:
		return y, nil
	case LinearLn, LinearLog10, LinearLog2:
		if y <= 0 {
			return 0, valueErrorf("logarithm of non-positive value %g", y)
		}
		switch l {
		case LinearLn:
			return math.Log(y), nil
		case LinearLog10:
			return math.Log10(y), nil
		default:
			return math.Log2(y), nil
		}
	case LinearE:
		return math.Exp(y), nil
	case LinearExp10:
		return math.Pow(10, y), nil
	case LinearExp2:
		return math.Exp2(y), nil
	case LinearInverse:
		if y == 0 {
			return 0, valueErrorf("division by zero in 1/x linearization")
		}
		return 1 / y, nil
	case LinearSqr:
		return y * y, nil
	case LinearCube:
		return y * y * y, nil
	case LinearSqrt:
		if y < 0 {
			return 0, valueErrorf("square root of negative value %g", y)
		}
		return math.Sqrt(y), nil
	case LinearCubeRoot:
		return math.Cbrt(y), nil
	default:
		return 0, valueErrorf("non-linear sensor (linearization 0x%02x) is not supported", l)
	}
}

// UnmarshalBinary decodes a complete SDR (header plus body).
func (s *SDR) UnmarshalBinary(data []byte) error {
	if len(data) < sdrHeaderLength {
		return valueErrorf("sdr too short: %d bytes", len(data))
	}

	*s = SDR{
		ID:      binary.LittleEndian.Uint16(data[0:2]),
		Version: data[2],
		Type:    RecordType(data[3]),
	}

	var idOffset int
	switch s.Type {
	case RecordTypeFullSensor, RecordTypeCompactSensor:
		if err := s.decodeSensorKey(data, 12); err != nil {
			return err
		}
		idOffset = compactIDOffset
		if s.Type == RecordTypeFullSensor {
			if err := s.decodeConversion(data); err != nil {
				return err
			}
			idOffset = fullIDOffset
		}
	case RecordTypeEventOnly:
		if err := s.decodeSensorKey(data, 10); err != nil {
			return err
		}
		idOffset = eventOnlyIDOffset
	case RecordTypeFRUDeviceLocator:
		idOffset = fruLocatorIDOffset
	case RecordTypeMCDeviceLocator:
		if len(data) > 5 {
			s.OwnerID = data[5]
		}
		idOffset = mcLocatorIDOffset
	default:
		return nil
	}

	s.DeviceIDString = decodeIDString(data, idOffset)
	return nil
}

// decodeSensorKey reads the owner, number and entity fields shared by all
// sensor records. typeOffset locates the sensor type byte.
func (s *SDR) decodeSensorKey(data []byte, typeOffset int) error {
	if len(data) < typeOffset+2 {
		return valueErrorf("%s record 0x%04x too short: %d bytes", s.Type, s.ID, len(data))
	}
	s.OwnerID = data[5]
	s.OwnerLUN = data[6] & 0x03
	s.Number = data[7]
	s.EntityID = data[8]
	s.EntityInstance = data[9]
	s.SensorType = data[typeOffset]
	s.EventReadingType = data[typeOffset+1]
	return nil
}

func (s *SDR) decodeConversion(data []byte) error {
	if len(data) < 30 {
		return valueErrorf("full sensor record 0x%04x too short: %d bytes", s.ID, len(data))
	}
	s.Conversion = &Conversion{
		AnalogFormat:  data[20] >> 6,
		Linearization: data[23] & 0x7f,
		M:             signExtend(uint16(data[24])|uint16(data[25]&0xc0)<<2, 10),
		B:             signExtend(uint16(data[26])|uint16(data[27]&0xc0)<<2, 10),
		RExp:          int8(signExtend(uint16(data[29]>>4), 4)),
		BExp:          int8(signExtend(uint16(data[29]&0x0f), 4)),
	}
	return nil
}

func decodeIDString(data []byte, offset int) string {
	if len(data) <= offset {
		return ""
	}
	n := int(data[offset] & 0x1f)
	end := min(offset+1+n, len(data))
	return strings.TrimRight(string(data[offset+1:end]), "\x00")
}

func signExtend(v uint16, bits uint) int16 {
	shift := 16 - bits
	return int16(v<<shift) >> shift
}

// MarshalBinary encodes s as a complete record. Fields the record type does
// not carry are ignored.
func (s *SDR) MarshalBinary() ([]byte, error) {
	if len(s.DeviceIDString) > 16 {
		return nil, valueErrorf("device id string %q longer than 16 bytes", s.DeviceIDString)
	}

	var idOffset int
	switch s.Type {
	case RecordTypeFullSensor:
		idOffset = fullIDOffset
	case RecordTypeCompactSensor:
		idOffset = compactIDOffset
	case RecordTypeEventOnly:
		idOffset = eventOnlyIDOffset
	case RecordTypeFRUDeviceLocator:
		idOffset = fruLocatorIDOffset
	case RecordTypeMCDeviceLocator:
		idOffset = mcLocatorIDOffset
	default:
		return nil, valueErrorf("can't encode record type 0x%02x", uint8(s.Type))
	}

	data := make([]byte, idOffset+1, idOffset+1+len(s.DeviceIDString))
	binary.LittleEndian.PutUint16(data[0:2], s.ID)
	data[2] = s.Version
	if data[2] == 0 {
		data[2] = sdrVersion
	}
	data[3] = byte(s.Type)

	switch s.Type {
	case RecordTypeFullSensor, RecordTypeCompactSensor:
		s.encodeSensorKey(data, 12)
	case RecordTypeEventOnly:
		s.encodeSensorKey(data, 10)
	case RecordTypeMCDeviceLocator:
		data[5] = s.OwnerID
	}

	if s.Type == RecordTypeFullSensor && s.Conversion != nil {
		c := s.Conversion
		m, b := uint16(c.M)&0x3ff, uint16(c.B)&0x3ff
		data[20] = c.AnalogFormat << 6
		data[23] = c.Linearization & 0x7f
		data[24] = byte(m)
		data[25] = byte(m>>2) & 0xc0
		data[26] = byte(b)
		data[27] = byte(b>>2) & 0xc0
		data[29] = byte(c.RExp)<<4 | byte(c.BExp)&0x0f
	}

	// 0xc0 marks 8-bit ASCII+Latin1
	data[idOffset] = 0xc0 | byte(len(s.DeviceIDString))
	data = append(data, s.DeviceIDString...)
	data[4] = byte(len(data) - sdrHeaderLength)
	return data, nil
}

func (s *SDR) encodeSensorKey(data []byte, typeOffset int) {
	data[5] = s.OwnerID
	data[6] = s.OwnerLUN & 0x03
	data[7] = s.Number
	data[8] = s.EntityID
	data[9] = s.EntityInstance
	data[typeOffset] = s.SensorType
	data[typeOffset+1] = s.EventReadingType
}
