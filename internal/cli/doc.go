// Package cli implements the ipmitool command line.
//
// A run goes through three stages:
//
//  1. Options are parsed by a cobra root command whose flags stop at the
//     first positional token, then assembled into Options through viper.
//  2. The positional tokens are resolved against the command registry. A
//     failed resolution prints usage for what was typed and exits 1.
//  3. The driver connects to the controller through the selected interface,
//     optionally establishes a LAN session, runs the action and maps
//     completion-code and timeout failures to a single output line. An
//     established session is always closed before the transport.
//
// Collaborators (output streams, the connector and the password prompt) are
// fields on App so tests can replace them.
package cli
