// Package cli implements the rankmerge command line: split, rank and serve.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/rankmerge/internal/config"
	"github.com/okian/rankmerge/pkg/logger"
	"github.com/okian/rankmerge/pkg/metrics"
)

// RootOptions holds global flags and the state PersistentPreRunE prepares
// for subcommands.
type RootOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string

	cfg *config.Config
	log logger.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rankmerge",
		Short: "Split tables into chunks and merge two rankings by rank sum",
		Long: `rankmerge runs two independent file pipelines.

split  partitions every row of a file into contiguous chunk files.
rank   ranks a WLOCK source and an EVENT_COUNT source by key, merges them by
       rank sum and writes the full ranking plus paged top-N files.
serve  exposes both pipelines over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (default $"+config.EnvConfigFile+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")

	cmd.AddCommand(NewSplitCommand(opts))
	cmd.AddCommand(NewRankCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// setup loads the configuration and initializes logging and metrics. Logs go
// to errOut so stdout carries only command output.
func (o *RootOptions) setup(ctx context.Context, errOut io.Writer) error {
	var loadOpts []config.LoadOption
	if o.ConfigFile != "" {
		loadOpts = append(loadOpts, config.WithFile(o.ConfigFile))
	}
	cfg, err := config.Load(ctx, loadOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}

	if err := logger.Init(logger.WithWriter(errOut), logger.WithFormat(cfg.LogFormat)); err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize logging", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return WrapExitError(ExitCommandError, "invalid log level", err)
	}
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.Metrics.Enabled),
		metrics.WithRefreshInterval(cfg.Metrics.RefreshInterval),
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithMetricPrefix(cfg.Metrics.Prefix),
		metrics.WithConstLabels(cfg.Metrics.Labels),
		metrics.WithDurationBuckets(cfg.Metrics.DurationBuckets),
	)

	o.cfg = cfg
	o.log = logger.Get()
	return nil
}

// Execute runs the command line and returns the process exit code. Errors are
// printed to errOut with their message intact.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, "Error:", err.Error())
		return GetExitCode(err)
	}
	return ExitSuccess
}

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Pipeline failure
	ExitCommandError = 2 // Bad flags, arguments or configuration
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
