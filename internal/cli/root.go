// Package cli is the `todo` command line: one-shot subcommands for
// scripting plus `todo ui` for the interactive client.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Streams are the command's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns os.Stdin, os.Stdout and os.Stderr.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// RootCommand is the base `todo` command.
type RootCommand struct {
	cmd     *cobra.Command
	streams Streams
	app     *App

	configPath string
	server     string
	theme      string
	logLevel   string
	noColor    bool
}

// NewRootCommand creates the root command with global flags.
func NewRootCommand(streams Streams) *RootCommand {
	r := &RootCommand{streams: streams}
	r.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A terminal client for your to-do list",
		Long: `todo talks to a tada backend. Run it without arguments (or with "ui")
for the interactive client, or use the subcommands for scripting.

CONFIGURATION:
  Flags > TADA_* environment variables (.env is read too) > ~/.tada/config.toml > defaults

    TADA_SERVER        backend URL (default: http://localhost:8000/api)
    TADA_TIMEOUT       request timeout (default: 10s)
    TADA_THEME         classic, neon or mono
    TADA_TOAST_TTL     notification lifetime, 3s to 4s
    TADA_LOG_FILE      log file (default: ~/.tada/tada.log)
    TADA_LOG_LEVEL     debug, info, warn or error
    TADA_CREDENTIALS   remembered session (default: ~/.tada/credentials.json)
    TADA_TOKEN         bearer token to use instead of logging in`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.runUI()
		},
	}
	r.cmd.SetIn(streams.In)
	r.cmd.SetOut(streams.Out)
	r.cmd.SetErr(streams.Err)

	flags := r.cmd.PersistentFlags()
	flags.StringVar(&r.configPath, "config", "", "config file (default ~/.tada/config.toml)")
	flags.StringVar(&r.server, "server", "", "backend URL (overrides TADA_SERVER)")
	flags.StringVar(&r.theme, "theme", "", "classic, neon or mono (overrides TADA_THEME)")
	flags.StringVar(&r.logLevel, "log-level", "", "log level (overrides TADA_LOG_LEVEL)")
	flags.BoolVar(&r.noColor, "no-color", false, "disable colors")

	r.addSubcommands()
	return r
}

func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		&cobra.Command{
			Use:   "ui",
			Short: "Start the interactive client",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.app.runUI()
			},
		},
		r.listCommand(),
		r.addCommand(),
		r.doneCommand(),
		r.editCommand(),
		r.removeCommand(),
		r.authCommand(),
	)
}

// setup resolves configuration and builds the app once per run.
func (r *RootCommand) setup() error {
	cfg, err := config.Load(r.configPath)
	if err != nil {
		return err
	}
	if r.server != "" {
		cfg.Server = r.server
	}
	if r.theme != "" {
		cfg.Theme = r.theme
	}
	if r.logLevel != "" {
		cfg.LogLevel = r.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ui.SetColorForcing(false, r.noColor)

	app, err := NewApp(cfg, r.streams)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

// Execute runs the command line and returns the process exit code.
func (r *RootCommand) Execute(ctx context.Context, args []string) int {
	r.cmd.SetArgs(args)
	err := r.cmd.ExecuteContext(ctx)
	if r.app != nil {
		r.app.Close()
	}
	return r.report(err)
}

// report prints err and maps it to an exit code. Errors that are not
// *apperr.AppError come from flag parsing or configuration.
func (r *RootCommand) report(err error) int {
	if err == nil {
		return 0
	}
	th := ui.NewTheme(r.theme)
	if r.app != nil {
		th = r.app.theme
	}

	var ae *apperr.AppError
	if !errors.As(err, &ae) {
		th.Fail(r.streams.Err, err.Error())
		th.Hint(r.streams.Err, "Run `todo --help` for usage.")
		return 2
	}
	th.Fail(r.streams.Err, apperr.UserMessage(err))
	switch ae.Kind {
	case apperr.KindUnauthorized:
		th.Hint(r.streams.Err, "Run `todo auth login` to sign in.")
	case apperr.KindNotFound:
		th.Hint(r.streams.Err, "Run `todo ls` to see valid ids.")
	}
	if r.app != nil && (ae.Kind == apperr.KindNetwork || ae.Kind == apperr.KindUnexpected) {
		r.app.logger.Error("command failed", "err", err)
	}
	return apperr.ExitCode(err)
}
