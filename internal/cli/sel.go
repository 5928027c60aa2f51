package cli

import (
	"fmt"

	"github.com/rileyhilliard/ipmitool/internal/command"
	"github.com/rileyhilliard/ipmitool/internal/util"
)

func selList(ctx *command.Context, _ []string) error {
	n := 0
	for e, err := range ctx.Conn.SELEntries() {
		if err != nil {
			return err
		}
		n++
		fmt.Fprintln(ctx.Out, e.String())
	}
	ctx.Log.Debug("listed %d event log %s", n, util.Pluralize(n, "entry", "entries"))
	return nil
}
