// Package cli is the host command tree of microshell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/synco/microshell/app"
	"github.com/synco/microshell/internal/buildinfo"
	"github.com/synco/microshell/internal/config"
)

// rootOptions holds the persistent flags and what PersistentPreRunE
// resolves from them.
type rootOptions struct {
	cfgFile string
	verbose bool

	cfg     *config.Config
	cfgPath string
	logger  *log.Logger
}

// NewRootCommand builds the microshell command tree. Without a
// subcommand it behaves like "serve".
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}

	root := &cobra.Command{
		Use:   buildinfo.Name,
		Short: "A tiny command shell with a mountable virtual namespace",
		Long: `microshell runs the device shell on the host.

The shell is the same one flashed to boards: a mount tree of commands
under /, /dev and /etc with the help, ls, cd and pwd built-ins. On the
host it can talk over stdin/stdout, a pseudo-terminal, SSH or a window.

Examples:
  microshell                 Shell on this terminal (Ctrl-D quits)
  microshell pty             Shell on a new pseudo-terminal
  microshell ssh             Shell per SSH session
  microshell config show     Effective configuration`,
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, o)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/microshell/config.toml)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	flags.String("hostname", "", "hostname shown in the prompt")
	flags.Int("shell-input-buffer", 0, "input line buffer size in bytes")
	flags.Int("shell-output-buffer", 0, "command output buffer size in bytes")
	flags.Int("shell-path-max", 0, "maximum path length in bytes")
	flags.Int("shell-max-nodes", 0, "mount registry capacity")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(o),
		newPTYCommand(o),
		newWindowCommand(o),
		newSSHCommand(o),
		newConfigCommand(o),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree until it finishes or SIGINT/SIGTERM
// arrives, and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error("microshell failed", "err", err)
		os.Exit(1)
	}
}

func (o *rootOptions) init(cmd *cobra.Command) error {
	cfg, path, err := config.Load(config.LoadOptions{
		ConfigFilePath: o.cfgFile,
		Flags:          cmd.Flags(),
	})
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.cfgPath = path

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if o.verbose {
		level = log.DebugLevel
	}
	o.logger = newLogger(cmd.ErrOrStderr(), level)
	log.SetDefault(o.logger)

	o.logger.Debug("config loaded", "file", path, "hostname", cfg.Hostname)
	return nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          buildinfo.Name,
		Level:           level,
		ReportTimestamp: true,
	})
}

// appConfig is the per-shell configuration every transport starts from.
func (o *rootOptions) appConfig() app.Config {
	cfg := app.DefaultConfig()
	cfg.Shell = o.cfg.ShellConfig()
	return cfg
}

// cleanExit drops the errors that mean the user or peer ended the shell.
func cleanExit(err error) error {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, app.ErrClosed),
		errors.Is(err, io.EOF):
		return nil
	}
	return err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Line())
			return err
		},
	}
}
