package cli

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/rileyhilliard/ipmitool/internal/command"
	"github.com/rileyhilliard/ipmitool/internal/errors"
	"github.com/rileyhilliard/ipmitool/internal/logger"
	"github.com/rileyhilliard/ipmitool/internal/ui"
	"github.com/rileyhilliard/ipmitool/pkg/ipmi"

	// Transports available to -I.
	_ "github.com/rileyhilliard/ipmitool/pkg/ipmi/ipmitool"
	_ "github.com/rileyhilliard/ipmitool/pkg/ipmi/sim"
)

// Connector builds the connection for a run from the parsed options.
type Connector func(opts Options, log logger.Logger) (ipmi.Connection, error)

// DefaultConnector creates the interface named by opts.Interface and binds
// a connection to it.
func DefaultConnector(opts Options, log logger.Logger) (ipmi.Connection, error) {
	iface, err := ipmi.CreateInterface(opts.Interface, ipmi.InterfaceOptions{
		Logger:          log,
		Timeout:         opts.Timeout,
		InsecureHostKey: opts.InsecureHostKey,
	})
	if err != nil {
		return nil, err
	}
	return ipmi.NewConnection(iface, ipmi.WithLogger(log)), nil
}

// drive resolves argv, connects, runs the action and tears everything down.
// An established session is closed on every path out of here, panics
// included, and always before the transport.
func (a *App) drive(opts Options, argv []string) (err error) {
	usage := newUsage()
	if len(argv) == 0 {
		usage.Render(a.Out, nil)
		return errors.NewExitError(1)
	}

	resolved, err := newRegistry().Match(argv)
	if err != nil {
		usage.Render(a.Out, argv)
		return errors.NewExitError(1)
	}

	log := logger.New(a.Err, opts.Verbose)
	log.Debug("resolved %q with args %q", resolved.Entry.Name(), resolved.Args)

	conn, err := a.Connect(opts, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn("closing interface: %v", cerr)
		}
	}()
	conn.SetTarget(ipmi.NewTarget(opts.Target))

	if opts.HostSet {
		session := conn.Session()
		if err := a.openSession(session, opts); err != nil {
			return err
		}
		defer func() {
			if cerr := session.Close(); cerr != nil && err == nil {
				err = errors.WrapWithCode(cerr, errors.ErrSession,
					fmt.Sprintf("Couldn't close the session with %s", opts.Host),
					"The controller may keep the session until it times out.")
			}
		}()
	}

	ctx := &command.Context{
		Conn:      conn,
		Out:       a.Out,
		Log:       log,
		UsageFunc: func() { usage.Render(a.Out, argv) },
	}
	return reportFailure(a.Out, resolved.Entry.Action(ctx, resolved.Args))
}

// openSession configures and establishes a LAN session. Failure is fatal
// and nothing is left to close.
func (a *App) openSession(session ipmi.SessionControl, opts Options) error {
	password := opts.Password
	if opts.AskPassword {
		var err error
		if password, err = a.Prompt("Password: "); err != nil {
			return err
		}
	}

	session.SetSessionTypeRMCP(opts.Host, opts.Port)
	session.SetAuthTypeUser(opts.User, password)

	var spinner *ui.Spinner
	if a.Interactive {
		spinner = ui.NewSpinner(a.Err, "Establishing session with "+opts.Host)
		spinner.Start()
	}

	if err := session.Establish(); err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return errors.WrapWithCode(err, errors.ErrSession,
			fmt.Sprintf("Couldn't establish a session with %s", opts.Host),
			"Check the host, port, user and password.")
	}
	if spinner != nil {
		spinner.Success()
	}
	return nil
}

// reportFailure turns completion-code and timeout failures into their
// one-line messages. Anything else is returned unchanged.
func reportFailure(w io.Writer, err error) error {
	var cc *ipmi.CompletionCodeError
	if stderrors.As(err, &cc) {
		fmt.Fprintf(w, "Command returned with completion code 0x%02x\n", cc.Code)
		return nil
	}

	var timeout *ipmi.TimeoutError
	if stderrors.As(err, &timeout) {
		fmt.Fprintln(w, "Command timed out")
		return nil
	}
	return err
}
