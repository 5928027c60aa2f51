package ui

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/rileyhilliard/ipmitool/internal/errors"
)

// RenderError writes a fatal diagnostic to w. Structured errors show their
// message, cause and suggestion on separate lines; anything else is printed
// as a single failure line.
func RenderError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		fmt.Fprintf(w, "%s %s\n", ErrorStyle().Render(SymbolFail), err.Error())
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle().Render(SymbolFail), e.Message)
	if e.Cause != nil && e.Cause.Error() != e.Message {
		fmt.Fprintf(w, "\n  %s\n", MutedStyle().Render(e.Cause.Error()))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(w, "\n  %s\n", WarningStyle().Render(e.Suggestion))
	}
}
