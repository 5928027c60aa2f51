package command

import (
	"fmt"
	"io"

	"github.com/samber/lo"
)

// Usage renders help text from a static help index.
type Usage struct {
	Index   []HelpEntry
	Banner  string
	Program string
}

// Select returns the help entries shown for input, using the first tier
// that yields at least one entry:
//
//  1. entries exactly one token deeper than input, under input
//  2. entries more than one token deeper than input, under input
//  3. the entry whose path equals input
//
// It returns nil when no tier matches.
func (u Usage) Select(input []string) []HelpEntry {
	depth := len(input)
	tiers := []func(HelpEntry) bool{
		func(h HelpEntry) bool { return len(h.Path) == depth+1 },
		func(h HelpEntry) bool { return len(h.Path) > depth+1 },
		func(h HelpEntry) bool { return len(h.Path) == depth },
	}

	for _, tier := range tiers {
		selected := lo.Filter(u.Index, func(h HelpEntry, _ int) bool {
			return tier(h) && h.hasPrefix(input)
		})
		if len(selected) > 0 {
			return selected
		}
	}
	return nil
}

// Render writes help for input to w. When nothing in the index relates to
// input, top-level usage is rendered instead. Empty input gets the banner
// and usage header before the command list.
func (u Usage) Render(w io.Writer, input []string) {
	selected := u.Select(input)
	if len(selected) == 0 && len(input) > 0 {
		u.Render(w, nil)
		return
	}

	if len(input) == 0 {
		u.header(w)
	}

	width := lo.Max(lo.Map(selected, func(h HelpEntry, _ int) int {
		return len(h.Display())
	}))
	for _, h := range selected {
		fmt.Fprintf(w, "  %-*s   %s\n", width, h.Display(), h.Help)
	}
}

// header writes the banner and the generic usage lines.
func (u Usage) header(w io.Writer) {
	if u.Banner != "" {
		fmt.Fprintln(w, u.Banner)
	}
	fmt.Fprintf(w, "usage: %s [options...] <command>\n", u.program())
	fmt.Fprintln(w, "Commands:")
}

func (u Usage) program() string {
	if u.Program == "" {
		return "ipmitool"
	}
	return u.Program
}
