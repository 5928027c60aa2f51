// Package command holds the static command registry and help index, the
// longest-prefix path matcher, and the usage resolver that renders help for
// a partially typed command path.
//
// Both tables are plain ordered data built once at startup:
//
//	reg := command.NewRegistry(
//		command.Entry{Path: []string{"bmc", "info"}, Action: bmcInfo},
//		command.Entry{Path: []string{"sdr", "show"}, Action: sdrShow},
//	)
//	resolved, err := reg.Match([]string{"sdr", "show", "0x10"})
//	// resolved.Args == []string{"0x10"}
//
// Usage rendering searches the help index in three tiers (immediate children
// of the typed path, deeper descendants, the typed path itself) and falls
// back to top-level usage when none of them match.
package command
