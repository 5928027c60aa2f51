package cli

import "github.com/rileyhilliard/ipmitool/internal/command"

func newRegistry() *command.Registry {
	return command.NewRegistry(
		command.Entry{Path: []string{"bmc", "info"}, Action: bmcInfo},
		command.Entry{Path: []string{"bmc", "reset", "cold"}, Action: bmcColdReset},
		command.Entry{Path: []string{"bmc", "reset", "warm"}, Action: bmcWarmReset},
		command.Entry{Path: []string{"sel", "list"}, Action: selList},
		command.Entry{Path: []string{"sdr", "list"}, Action: sdrList},
		command.Entry{Path: []string{"sdr", "show"}, Action: sdrShow},
	)
}

// helpIndex is in display order. Groups ("bmc") have entries of their own.
var helpIndex = []command.HelpEntry{
	{Path: []string{"sel"}, Help: "Print System Event Log (SEL)"},
	{Path: []string{"sel", "list"}, Help: "List all SEL entries"},

	{Path: []string{"sdr"}, Help: "Print SDRs "},
	{Path: []string{"sdr", "list"}, Help: "List all SDRs"},
	{Path: []string{"sdr", "show"}, Arguments: "<sdr-id>", Help: "List all SDRs"},

	{Path: []string{"bmc"}, Help: "Management Controller status and global enables"},
	{Path: []string{"bmc", "info"}, Help: "BMC Device ID inforamtion"},
	{Path: []string{"bmc", "reset"}, Arguments: "<cold|warm>", Help: "BMC reset control"},
}

func newUsage() command.Usage {
	return command.Usage{
		Index:   helpIndex,
		Banner:  Banner(),
		Program: "ipmitool",
	}
}
