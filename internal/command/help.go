package command

import "strings"

// HelpEntry describes a command or command group for usage output.
// Path may be a strict prefix of registered paths (a group such as "bmc").
type HelpEntry struct {
	Path      []string
	Arguments string
	Help      string
}

// Name returns the path joined by spaces.
func (h HelpEntry) Name() string {
	return strings.Join(h.Path, " ")
}

// Display returns the name followed by the argument signature, if any.
func (h HelpEntry) Display() string {
	if h.Arguments == "" {
		return h.Name()
	}
	return h.Name() + " " + h.Arguments
}

// hasPrefix reports whether the first len(prefix) tokens of path equal prefix.
func (h HelpEntry) hasPrefix(prefix []string) bool {
	if len(h.Path) < len(prefix) {
		return false
	}
	for i, tok := range prefix {
		if h.Path[i] != tok {
			return false
		}
	}
	return true
}
