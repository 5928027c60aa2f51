package sim

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
)

//go:embed default.yaml
var defaultFixture []byte

// Fixture describes a simulated controller.
type Fixture struct {
	// Address is the IPMB address the controller answers on. Requests to
	// any other address time out.
	Address uint8 `yaml:"address"`

	Device DeviceFixture `yaml:"device"`

	// Credentials, when set, are checked by session establishment.
	Credentials *CredentialsFixture `yaml:"credentials,omitempty"`

	SDRs []SDRFixture `yaml:"sdrs"`
	SEL  []SELFixture `yaml:"sel"`

	// Failures inject completion codes or timeouts for specific commands.
	Failures []FailureFixture `yaml:"failures"`
}

// DeviceFixture is the Get Device ID identity.
type DeviceFixture struct {
	ID             uint8    `yaml:"id"`
	Revision       uint8    `yaml:"revision"`
	FirmwareMajor  uint8    `yaml:"firmware_major"`
	FirmwareMinor  uint8    `yaml:"firmware_minor"`
	IPMIMajor      uint8    `yaml:"ipmi_major"`
	IPMIMinor      uint8    `yaml:"ipmi_minor"`
	ManufacturerID uint32   `yaml:"manufacturer_id"`
	ProductID      uint16   `yaml:"product_id"`
	Unavailable    bool     `yaml:"unavailable"`
	ProvidesSDRs   bool     `yaml:"provides_sdrs"`
	Functions      []string `yaml:"functions"`
	Aux            []uint8  `yaml:"aux"`
}

// CredentialsFixture is the accepted user/password pair.
type CredentialsFixture struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// SDRFixture is one repository record. Full sensor records default to a
// linear unsigned conversion with M=1.
type SDRFixture struct {
	ID          uint16 `yaml:"id"`
	Type        string `yaml:"type"`
	Name        string `yaml:"name"`
	Number      uint8  `yaml:"number"`
	SensorType  uint8  `yaml:"sensor_type"`
	EntityID    uint8  `yaml:"entity_id"`
	Reading     uint8  `yaml:"reading"`
	Unavailable bool   `yaml:"unavailable"`

	AnalogFormat  uint8  `yaml:"analog_format"`
	Linearization uint8  `yaml:"linearization"`
	M             *int16 `yaml:"m"`
	B             int16  `yaml:"b"`
	RExp          int8   `yaml:"r_exp"`
	BExp          int8   `yaml:"b_exp"`
}

// SELFixture is one system event record.
type SELFixture struct {
	ID           uint16  `yaml:"id"`
	RecordType   uint8   `yaml:"record_type"`
	Timestamp    uint32  `yaml:"timestamp"`
	SensorType   uint8   `yaml:"sensor_type"`
	SensorNumber uint8   `yaml:"sensor_number"`
	EventType    uint8   `yaml:"event_type"`
	Deassertion  bool    `yaml:"deassertion"`
	Data         []uint8 `yaml:"data"`
}

// FailureFixture makes one command fail. Timeout wins over CompletionCode.
type FailureFixture struct {
	NetFn          uint8 `yaml:"netfn"`
	Command        uint8 `yaml:"command"`
	CompletionCode uint8 `yaml:"completion_code"`
	Timeout        bool  `yaml:"timeout"`
}

var recordTypes = map[string]ipmi.RecordType{
	"full":        ipmi.RecordTypeFullSensor,
	"compact":     ipmi.RecordTypeCompactSensor,
	"event_only":  ipmi.RecordTypeEventOnly,
	"fru_locator": ipmi.RecordTypeFRUDeviceLocator,
	"mc_locator":  ipmi.RecordTypeMCDeviceLocator,
}

// DefaultFixture returns the built-in controller description.
func DefaultFixture() *Fixture {
	f, err := ParseFixture(defaultFixture)
	if err != nil {
		panic("sim: invalid built-in fixture: " + err.Error())
	}
	return f
}

// LoadFixture reads a fixture from a YAML file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read simulator fixture "+path,
			"Check that the file exists and is readable.")
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid simulator fixture "+path,
			"Fix the YAML so it matches the fixture format.")
	}
	return f, nil
}

// ParseFixture decodes and validates a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	f := &Fixture{Address: ipmi.DefaultTargetAddress}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks names and identifiers the simulator relies on.
func (f *Fixture) Validate() error {
	for _, name := range f.Device.Functions {
		if _, ok := ipmi.ParseFunction(name); !ok {
			return errors.New(errors.ErrConfig, "unknown device function "+name, "")
		}
	}
	if n := len(f.Device.Aux); n != 0 && n != 4 {
		return errors.New(errors.ErrConfig, "device aux must have 4 bytes", "")
	}

	seen := make(map[uint16]bool)
	for _, r := range f.SDRs {
		if _, ok := recordTypes[strings.ToLower(r.Type)]; !ok {
			return errors.New(errors.ErrConfig, "unknown sdr type "+r.Type, "")
		}
		if r.ID == 0 || r.ID == ipmi.LastRecordID || seen[r.ID] {
			return errors.New(errors.ErrConfig, "sdr ids must be unique and not 0x0000 or 0xffff", "")
		}
		seen[r.ID] = true
	}

	seen = make(map[uint16]bool)
	for _, e := range f.SEL {
		if e.ID == 0 || e.ID == ipmi.LastRecordID || seen[e.ID] {
			return errors.New(errors.ErrConfig, "sel ids must be unique and not 0x0000 or 0xffff", "")
		}
		if len(e.Data) > 3 {
			return errors.New(errors.ErrConfig, "sel event data has at most 3 bytes", "")
		}
		seen[e.ID] = true
	}
	return nil
}

func (d DeviceFixture) deviceID() *ipmi.DeviceID {
	id := &ipmi.DeviceID{
		DeviceID:       d.ID,
		Revision:       d.Revision,
		ProvidesSDRs:   d.ProvidesSDRs,
		Available:      !d.Unavailable,
		FirmwareMajor:  d.FirmwareMajor,
		FirmwareMinor:  d.FirmwareMinor,
		IPMIMajor:      d.IPMIMajor,
		IPMIMinor:      d.IPMIMinor,
		ManufacturerID: d.ManufacturerID,
		ProductID:      d.ProductID,
		Aux:            d.Aux,
	}
	for _, name := range d.Functions {
		f, _ := ipmi.ParseFunction(name)
		id.AdditionalSupport |= 1 << uint(f)
	}
	return id
}

func (r SDRFixture) record() *ipmi.SDR {
	rec := &ipmi.SDR{
		ID:               r.ID,
		Type:             recordTypes[strings.ToLower(r.Type)],
		OwnerID:          ipmi.DefaultTargetAddress,
		Number:           r.Number,
		EntityID:         r.EntityID,
		EntityInstance:   1,
		SensorType:       r.SensorType,
		EventReadingType: 0x01,
		DeviceIDString:   r.Name,
	}
	if rec.Type == ipmi.RecordTypeFullSensor {
		m := int16(1)
		if r.M != nil {
			m = *r.M
		}
		rec.Conversion = &ipmi.Conversion{
			AnalogFormat:  r.AnalogFormat,
			Linearization: r.Linearization,
			M:             m,
			B:             r.B,
			RExp:          r.RExp,
			BExp:          r.BExp,
		}
	}
	return rec
}

func (e SELFixture) entry() *ipmi.SELEntry {
	entry := &ipmi.SELEntry{
		ID:               e.ID,
		RecordType:       e.RecordType,
		Timestamp:        e.Timestamp,
		GeneratorID:      0x0020,
		EvMRev:           0x04,
		SensorType:       e.SensorType,
		SensorNumber:     e.SensorNumber,
		Deassertion:      e.Deassertion,
		EventReadingType: e.EventType,
	}
	if entry.RecordType == 0 {
		entry.RecordType = ipmi.SELRecordTypeSystemEvent
	}
	copy(entry.EventData[:], e.Data)
	return entry
}
