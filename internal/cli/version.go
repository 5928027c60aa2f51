package cli

import (
	"fmt"
	"io"
	"runtime"
)

// Version information, overridable via ldflags at build time.
var (
	version = "0.1"
	commit  = "none"
	date    = "unknown"
)

// formatVersion ensures version has a 'v' prefix for display
func formatVersion(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}

// Banner is the first line of top-level usage and the output of -V.
func Banner() string {
	return "ipmitool " + formatVersion(version)
}

// SetVersionInfo sets the version information (called from main).
// Empty values keep the built-in defaults.
func SetVersionInfo(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

// printVersion writes the banner, plus build details when verbose.
func printVersion(w io.Writer, verbose bool) {
	fmt.Fprintln(w, Banner())
	if !verbose {
		return
	}
	fmt.Fprintf(w, "commit: %s\n", commit)
	fmt.Fprintf(w, "built: %s\n", date)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
