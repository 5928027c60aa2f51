package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/internal/ui"
)

// App is one ipmitool process: its streams and its collaborators.
type App struct {
	Out io.Writer
	Err io.Writer

	// Connect builds the connection for a run.
	Connect Connector

	// Prompt reads a secret for -a.
	Prompt func(title string) (string, error)

	// Interactive shows a spinner on Err while a session is established.
	Interactive bool
}

// NewApp returns an App wired to the process streams and real transports.
func NewApp() *App {
	return &App{
		Out:         os.Stdout,
		Err:         os.Stderr,
		Connect:     DefaultConnector,
		Prompt:      ui.PromptPassword,
		Interactive: ui.IsTerminal(os.Stderr),
	}
}

// Execute runs ipmitool with the process arguments and returns the exit
// status.
func Execute() int {
	ui.ConfigureColors(os.Stderr)
	return NewApp().Run(os.Args[1:])
}

// Run executes one invocation and returns its exit status:
// 0 on success, help and version; 1 when no command resolves or a fatal
// error occurs; 2 for bad options.
func (a *App) Run(args []string) int {
	if args == nil {
		args = []string{}
	}

	root := a.newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}

	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	var structured *errors.Error
	if stderrors.As(err, &structured) && structured.Code == errors.ErrOption {
		fmt.Fprintln(a.Out, structured.Message)
		newUsage().Render(a.Out, nil)
		return 2
	}

	ui.RenderError(a.Err, err)
	return 1
}

func (a *App) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ipmitool [options...] <command>",
		Short:         "Send management commands to a baseboard management controller",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// -V needs no other option to be valid.
			if version, _ := cmd.Flags().GetBool(flagVersion); version {
				verbose, _ := cmd.Flags().GetBool(flagVerbose)
				printVersion(a.Out, verbose)
				return nil
			}
			opts, err := loadOptions(cmd.Flags())
			if err != nil {
				return err
			}
			return a.drive(opts, args)
		},
	}

	root.SetOut(a.Out)
	root.SetErr(a.Err)
	root.CompletionOptions.DisableDefaultCmd = true

	registerFlags(root.Flags())
	// Everything after the first positional token belongs to the command.
	root.Flags().SetInterspersed(false)

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewOptionError(err)
	})
	root.SetHelpFunc(func(*cobra.Command, []string) {
		newUsage().Render(a.Out, nil)
	})
	return root
}
