package cli

import (
	"context"
	"errors"
	"io"

	"github.com/specialistvlad/residencygrid/internal/app"
	"github.com/specialistvlad/residencygrid/internal/hcl_adapter"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure = 1 // a run had failed or skipped assets
	ExitUsage   = 2 // bad arguments or configuration
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// options holds the global flags.
type options struct {
	configPaths []string
	logLevel    string
	logFormat   string
	workers     int
}

// Execute runs the command line with args. Output meant for the user goes to
// stdout; logs go to stderr. Any failure is returned as an *ExitError.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects before a command runs is a usage problem.
	return usageError(err)
}

// NewRootCommand builds the command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "residencygrid",
		Short: "Residency program ETL pipeline",
		Long: `residencygrid ingests residency program extracts, transforms them through
staging, loads a normalized warehouse and computes analytics aggregates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringSliceVarP(&opts.configPaths, "config", "c", nil, "HCL configuration file or directory; repeatable.")
	flags.StringVar(&opts.logLevel, "log-level", "", "Logging level: debug, info, warn or error.")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log output format: text or json.")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Number of concurrent workers.")

	root.AddCommand(
		newRunCommand(opts),
		newAssetsCommand(opts),
		newJobsCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// openApp builds the App from the global flags. Logs go to the command's
// error stream.
func openApp(cmd *cobra.Command, opts *options, healthcheckPort int) (*app.App, error) {
	a, err := app.NewApp(cmd.Context(), cmd.ErrOrStderr(), &app.Config{
		ConfigPaths:     opts.configPaths,
		LogLevel:        opts.logLevel,
		LogFormat:       opts.logFormat,
		WorkerCount:     opts.workers,
		HealthcheckPort: healthcheckPort,
	}, hcl_adapter.NewLoader())
	if err != nil {
		return nil, usageError(err)
	}
	return a, nil
}
