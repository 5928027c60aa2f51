package ui

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rileyhilliard/ipmitool/internal/errors"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PromptPassword asks for a secret on the controlling terminal with echo
// disabled.
func PromptPassword(title string) (string, error) {
	if !IsTerminal(os.Stdin) {
		return "", errors.New(errors.ErrConfig,
			"Can't prompt for a password without a terminal",
			"Pass the password with -P instead of -a.")
	}

	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Password prompt was cancelled",
			"Pass the password with -P instead of -a.")
	}
	return password, nil
}
