package cli

import (
	"fmt"

	"github.com/rileyhilliard/ipmitool/internal/command"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"
)

// functionLabels is the "Additional Device Support" listing, in print order.
var functionLabels = []struct {
	fn    ipmi.Function
	label string
}{
	{ipmi.FunctionSensor, "Sensor Device"},
	{ipmi.FunctionSDRRepository, "SDR Repository Device"},
	{ipmi.FunctionSEL, "SEL Device"},
	{ipmi.FunctionFRUInventory, "FRU Inventory Device"},
	{ipmi.FunctionIPMBEventReceiver, "IPMB Event Receiver"},
	{ipmi.FunctionIPMBEventGenerator, "IPMB Event Generator"},
	{ipmi.FunctionBridge, "Bridge"},
	{ipmi.FunctionChassis, "Chassis Device"},
}

func bmcInfo(ctx *command.Context, _ []string) error {
	id, err := ctx.Conn.GetDeviceID()
	if err != nil {
		return err
	}

	w := ctx.Out
	fmt.Fprintf(w, "Device ID:          %d\n", id.DeviceID)
	fmt.Fprintf(w, "Device Revision:    %d\n", id.Revision)
	fmt.Fprintf(w, "Firmware Revision:  %d.%d\n", id.FirmwareMajor, id.FirmwareMinor)
	fmt.Fprintf(w, "IPMI Version:       %d.%d\n", id.IPMIMajor, id.IPMIMinor)
	fmt.Fprintf(w, "Manufacturer ID:    %d (0x%04x)\n", id.ManufacturerID, id.ManufacturerID)
	fmt.Fprintf(w, "Product ID:         %d (0x%04x)\n", id.ProductID, id.ProductID)
	fmt.Fprintf(w, "Device Available:   %d\n", boolDigit(id.Available))
	fmt.Fprintf(w, "Provides SDRs:      %d\n", boolDigit(id.ProvidesSDRs))
	fmt.Fprintln(w, "Additional Device Support:")

	for _, f := range functionLabels {
		if id.SupportsFunction(f.fn) {
			fmt.Fprintf(w, "  %s\n", f.label)
		}
	}

	if len(id.Aux) == 4 {
		fmt.Fprintf(w, "Aux Firmware Rev Info:  [%02x %02x %02x %02x]\n",
			id.Aux[0], id.Aux[1], id.Aux[2], id.Aux[3])
	}
	return nil
}

func bmcColdReset(ctx *command.Context, _ []string) error {
	return ctx.Conn.ColdReset()
}

func bmcWarmReset(ctx *command.Context, _ []string) error {
	return ctx.Conn.WarmReset()
}

func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}
