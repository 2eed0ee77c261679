// Package cli implements the ntv2 command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ntv2/internal/algorithm"
	"ntv2/internal/config"
	"ntv2/internal/logging"
)

const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error   { return &ExitError{Code: ExitUsage, Err: err} }
func failureError(err error) error { return &ExitError{Code: ExitFailure, Err: err} }

// classify maps domain errors to exit codes.
func classify(err error) error {
	var ee *ExitError
	switch {
	case err == nil || errors.As(err, &ee):
		return err
	case errors.Is(err, algorithm.ErrUnknownOption):
		return usageError(err)
	default:
		return failureError(err)
	}
}

type app struct {
	configPath string
	logLevel   string
	logJSON    bool

	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

// NewRootCmd builds the command tree writing to the given streams.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "ntv2",
		Short: "Datum transformations of vector and raster data with NTv2 grids",
		Long: `ntv2 converts vector and raster datasets between legacy national datums
and ETRS89-based reference systems of Switzerland, Austria, Portugal and
Spain using NTv2 grid shift files and the GDAL command line tools.

Grid files are downloaded on first use into the configured grids directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "configuration file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error")
	pf.BoolVar(&a.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(
		newListCmd(a),
		newRunCmd(a),
		newFetchCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return usageError(err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Writer: a.stderr})
	a.cfg = cfg
	return nil
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "ntv2:", err)
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	// cobra reports unknown commands and bad arguments as plain errors.
	return ExitUsage
}
