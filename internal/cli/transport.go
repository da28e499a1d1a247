package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/synco/microshell/app"
	"github.com/synco/microshell/hal"
	"github.com/synco/microshell/internal/sshd"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the shell on stdin/stdout",
		Long: `Run the shell on stdin/stdout.

When stdin is a terminal it is switched to raw mode so the shell does its
own line editing. Ctrl-D ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, o)
		},
	}
}

func runServe(cmd *cobra.Command, o *rootOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	restore, err := rawStdin()
	if err != nil {
		return err
	}
	defer restore()

	cfg := o.appConfig()
	cfg.Interrupt = cancel
	o.logger.Debug("serving on stdio", "raw", term.IsTerminal(int(os.Stdin.Fd())))
	return cleanExit(hal.RunHeadless(ctx, hal.New(), appFactory(cfg), o.cfg.Headless()))
}

// rawStdin puts a terminal stdin into raw mode. It is a no-op for pipes.
func rawStdin() (func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}
	return func() { _ = term.Restore(fd, state) }, nil
}

func newPTYCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pty",
		Short: "Run the shell on a new pseudo-terminal",
		Long: `Run the shell on a new pseudo-terminal.

The terminal path is printed on stdout. Attach to it with a serial
program, for example: screen /dev/pts/7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := hal.OpenPTY()
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			o.logger.Info("pty ready", "path", p.Name())
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), p.Name()); err != nil {
				return err
			}
			return cleanExit(hal.RunHeadless(cmd.Context(), hal.NewWithSerial(p), appFactory(o.appConfig()), o.cfg.Headless()))
		},
	}
}

func newWindowCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Run the shell on the display console in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := o.appConfig()
			cfg.Console = true
			return hal.RunWindow(appFactory(cfg))
		},
	}
}

func newSSHCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve a fresh shell on every SSH session",
		Long: `Serve a fresh shell on every SSH session.

Clients must request a terminal: ssh -t -p 2222 localhost
The host key is generated on first start when missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := sshd.New(sshd.Config{
				Addr:     o.cfg.SSH.Addr,
				HostKey:  o.cfg.SSH.HostKey,
				App:      o.appConfig(),
				Headless: o.cfg.Headless(),
			}, o.logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().String("ssh-addr", "", "listen address, host:port")
	cmd.Flags().String("ssh-host-key", "", "host key path")
	return cmd
}

func appFactory(cfg app.Config) func(hal.HAL) (func() error, error) {
	return func(h hal.HAL) (func() error, error) {
		return app.NewWithConfig(h, cfg)
	}
}
