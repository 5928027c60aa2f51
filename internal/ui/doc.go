// Package ui provides the terminal styling used for diagnostics and
// interactive prompts.
//
// Command output (usage text, bmc info, sdr listings) is plain text and never
// passes through this package. Only fatal diagnostics, the session spinner
// and the password prompt are styled, and all of them go to stderr.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess (green)  - Completed steps
//	ColorError   (red)    - Failures
//	ColorWarning (yellow) - Suggestions
//	ColorMuted   (gray)   - Secondary text, timing info
//
// ConfigureColors picks a color profile for the writer; DisableColors forces
// monochrome output.
//
// # Spinner Usage
//
//	s := ui.NewSpinner(os.Stderr, "Establishing session with bmc01")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
package ui
