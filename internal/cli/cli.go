// Package cli is the tada command line: one-shot commands over the saved list,
// the interactive list and the HTTP server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks mistakes on the command line (exit code 2).
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error {
	return &usageError{err: fmt.Errorf(format, a...)}
}

// usageArgs turns a cobra argument check failure into a usage error.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// env is what every command shares once the root flags are parsed.
type env struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	route      string
	storage    string
	theme      string

	cfg    *config.Config
	logger *log.Logger
	logOut io.Closer
}

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	e := &env{stdout: stdout, stderr: stderr}
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if e.logOut != nil {
		_ = e.logOut.Close()
	}
	if err == nil {
		return ExitOK
	}
	ui.Fail(stderr, err.Error())
	var ue *usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	return ExitError
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "tada",
		Short:         "A TodoMVC-style todo list for the terminal",
		Long:          "tada keeps a todo list in a key-value store and lets you work on it from the shell, an interactive list or HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return usagef("no command given")
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&e.configPath, "config", "", "config file (default ~/.tada/config.toml)")
	pf.StringVar(&e.route, "route", "", `route fragment selecting the filter ("#/", "#/active", "#/completed")`)
	pf.StringVar(&e.storage, "storage", "", "storage driver: file, memory, redis or sqlite")
	pf.StringVar(&e.theme, "theme", "", "color theme: classic, neon or mono")

	root.AddCommand(
		newAddCmd(e),
		newDoneCmd(e),
		newRmCmd(e),
		newEditCmd(e),
		newClearCmd(e),
		newToggleAllCmd(e),
		newLsCmd(e),
		newServeCmd(e),
		newAuthCmd(e),
	)
	return root
}

// setup loads the config, applies flag overrides and builds the logger.
func (e *env) setup() error {
	cfg, err := config.Read(e.configPath)
	if err != nil {
		return err
	}
	if e.storage != "" {
		cfg.Storage.Driver = e.storage
	}
	if e.theme != "" {
		cfg.Theme = e.theme
	}
	if e.route != "" {
		cfg.Route = e.route
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}
	e.cfg = cfg
	ui.SetTheme(cfg.Theme)

	w := e.stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		e.logOut = f
		w = f
	}
	e.logger = logging.FromConfig(w, cfg.LogLevel, cfg.LogFormat)
	return nil
}
