package command

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testIndex = []HelpEntry{
	{Path: []string{"sel"}, Help: "Print System Event Log (SEL)"},
	{Path: []string{"sel", "list"}, Help: "List all SEL entries"},
	{Path: []string{"sdr"}, Help: "Print SDRs "},
	{Path: []string{"sdr", "list"}, Help: "List all SDRs"},
	{Path: []string{"sdr", "show"}, Arguments: "<sdr-id>", Help: "List all SDRs"},
	{Path: []string{"bmc"}, Help: "Management Controller status and global enables"},
	{Path: []string{"bmc", "info"}, Help: "BMC Device ID inforamtion"},
	{Path: []string{"bmc", "reset"}, Arguments: "<cold|warm>", Help: "BMC reset control"},
}

func testUsage() Usage {
	return Usage{Index: testIndex, Banner: "ipmitool v0.1", Program: "ipmitool"}
}

func render(u Usage, input ...string) string {
	var buf bytes.Buffer
	u.Render(&buf, input)
	return buf.String()
}

const topLevel = "ipmitool v0.1\n" +
	"usage: ipmitool [options...] <command>\n" +
	"Commands:\n" +
	"  sel   Print System Event Log (SEL)\n" +
	"  sdr   Print SDRs \n" +
	"  bmc   Management Controller status and global enables\n"

func TestUsage_Render(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{
			name:  "empty input renders top-level usage",
			input: nil,
			want:  topLevel,
		},
		{
			name:  "group renders its children aligned",
			input: []string{"sdr"},
			want: "  sdr list            List all SDRs\n" +
				"  sdr show <sdr-id>   List all SDRs\n",
		},
		{
			name:  "argument signature counts toward width",
			input: []string{"bmc"},
			want: "  bmc info                BMC Device ID inforamtion\n" +
				"  bmc reset <cold|warm>   BMC reset control\n",
		},
		{
			name:  "leaf renders itself",
			input: []string{"sdr", "show"},
			want:  "  sdr show <sdr-id>   List all SDRs\n",
		},
		{
			name:  "unknown command falls back to top-level usage",
			input: []string{"bogus", "command"},
			want:  topLevel,
		},
		{
			name:  "too many tokens falls back to top-level usage",
			input: []string{"sdr", "show", "0x10"},
			want:  topLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(testUsage(), tt.input...))
		})
	}
}

func TestUsage_Select_TierOrdering(t *testing.T) {
	// "chassis" has no immediate children, only deeper descendants.
	u := Usage{Index: []HelpEntry{
		{Path: []string{"chassis"}, Help: "Chassis commands"},
		{Path: []string{"chassis", "power", "on"}, Help: "Power on"},
		{Path: []string{"chassis", "power", "off"}, Help: "Power off"},
		{Path: []string{"sdr", "list"}, Help: "List all SDRs"},
	}}

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "tier 1 immediate children",
			input: nil,
			want:  []string{"chassis"},
		},
		{
			name:  "tier 2 deeper descendants",
			input: []string{"chassis"},
			want:  []string{"chassis power on", "chassis power off"},
		},
		{
			name:  "tier 3 exact match",
			input: []string{"chassis", "power", "on"},
			want:  []string{"chassis power on"},
		},
		{
			name:  "no tier",
			input: []string{"sel"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, h := range u.Select(tt.input) {
				names = append(names, h.Name())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestUsage_Render_DeeperDescendantsNotBanner(t *testing.T) {
	u := Usage{
		Index: []HelpEntry{
			{Path: []string{"chassis", "power", "on"}, Help: "Power on"},
			{Path: []string{"chassis", "power", "cycle"}, Arguments: "[delay]", Help: "Power cycle"},
		},
		Banner: "ipmitool v0.1",
	}

	got := render(u, "chassis")

	assert.Equal(t,
		"  chassis power on              Power on\n"+
			"  chassis power cycle [delay]   Power cycle\n",
		got)
	assert.NotContains(t, got, "usage:")
}

func TestUsage_Render_EmptyIndex(t *testing.T) {
	u := Usage{Banner: "ipmitool v0.1"}

	want := "ipmitool v0.1\nusage: ipmitool [options...] <command>\nCommands:\n"
	assert.Equal(t, want, render(u))
	assert.Equal(t, want, render(u, "anything"))
}

func TestUsage_Render_DefaultProgramName(t *testing.T) {
	got := render(Usage{Index: testIndex})
	assert.Contains(t, got, "usage: ipmitool [options...] <command>\n")
	assert.NotContains(t, got, "v0.1")
}

func TestHelpEntry_Display(t *testing.T) {
	assert.Equal(t, "sdr list", HelpEntry{Path: []string{"sdr", "list"}}.Display())
	assert.Equal(t, "sdr show <sdr-id>",
		HelpEntry{Path: []string{"sdr", "show"}, Arguments: "<sdr-id>"}.Display())
}
