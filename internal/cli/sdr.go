package cli

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/rileyhilliard/ipmitool/internal/command"
	"github.com/rileyhilliard/ipmitool/internal/util"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
)

// sdrList prints every record. Any failure, an unconvertible reading
// included, stops the listing and keeps the rows already printed.
func sdrList(ctx *command.Context, _ []string) error {
	fmt.Fprintln(ctx.Out, "SDR-ID | Device String    |")
	fmt.Fprintln(ctx.Out, "=======|==================|====================")

	n := 0
	for s, err := range ctx.Conn.SDREntries() {
		if err != nil {
			return err
		}
		n++
		if s.Type != ipmi.RecordTypeFullSensor {
			fmt.Fprintf(ctx.Out, "0x%04x | %-16s |\n", s.ID, s.DeviceIDString)
			continue
		}

		value, err := readSensor(ctx.Conn, s)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "0x%04x | %-16s | %s\n", s.ID, s.DeviceIDString, value)
	}
	ctx.Log.Debug("listed %d sensor data %s", n, util.Pluralize(n, "record", "records"))
	return nil
}

// sdrShow prints one record. A malformed id or an unreadable value prints a
// single empty line instead.
func sdrShow(ctx *command.Context, args []string) error {
	if len(args) != 1 {
		ctx.Usage()
		return nil
	}

	lines, err := describeSDR(ctx.Conn, args[0])
	if isValueError(err) {
		ctx.Log.Debug("sdr show %s: %v", args[0], err)
		fmt.Fprintln(ctx.Out)
		return nil
	}
	if err != nil {
		return err
	}

	for _, line := range lines {
		fmt.Fprintln(ctx.Out, line)
	}
	return nil
}

// describeSDR gathers everything before printing so a late failure leaves
// no partial output.
func describeSDR(conn ipmi.Connection, arg string) ([]string, error) {
	id, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return nil, &ipmi.ValueError{Msg: fmt.Sprintf("invalid record id %q", arg)}
	}

	s, err := conn.GetSDR(uint16(id))
	if err != nil {
		return nil, err
	}

	lines := []string{
		fmt.Sprintf("SDR record ID:    0x%04x", s.ID),
		fmt.Sprintf("Device Id string: %s", s.DeviceIDString),
	}
	if s.Type == ipmi.RecordTypeFullSensor {
		value, err := readSensor(conn, s)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("reading:          %s", value))
	}
	return lines, nil
}

// readSensor returns the converted reading of a full sensor record.
func readSensor(conn ipmi.Connection, s *ipmi.SDR) (string, error) {
	raw, err := conn.GetSensorReading(s.Number)
	if err != nil {
		return "", err
	}
	v, err := s.ConvertSensorReading(raw)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

func isValueError(err error) bool {
	var valueErr *ipmi.ValueError
	return stderrors.As(err, &valueErr)
}
