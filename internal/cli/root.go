// Package cli implements the qdiagx command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qdiagx/internal/config"
	"qdiagx/internal/logging"
)

// DefaultConfigPath is the configuration file read when --config is not set.
const DefaultConfigPath = "qdiagx.yaml"

// RootOptions holds global flags for all commands and the state the root
// command prepares for them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Config *config.Config
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the qdiagx CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qdiagx",
		Short: "qdiagx - DIAG expansion for quantum English circuits",
		Long: `qdiagx rewrites every DIAG line of a quantum English file into
elementary gates and writes the expanded English and Picture files under the
next _X<k> prefix.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(); err != nil {
				_ = opts.formatter(cmd).Error("E_SETUP", err.Error(), nil)
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", DefaultConfigPath, "configuration file")

	cmd.AddCommand(NewExpandCommand(opts))
	cmd.AddCommand(NewNextPrefixCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))

	return cmd
}

// Execute runs the qdiagx command line with args and returns the process
// exit code. Command errors are reported on stderr before Execute returns.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// flag and argument errors from cobra itself
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	return exitErr.Code
}

// setup validates the global flags, loads the configuration and builds the
// logger.
func (o *RootOptions) setup() error {
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	o.Config = cfg

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, o.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize logging", err)
	}
	o.Logger = logger
	logger.Debug("configuration loaded",
		zap.String("path", o.ConfigPath),
		zap.String("style", cfg.Style),
		zap.Int("num_bits", cfg.NumBits),
	)
	return nil
}

// config returns the loaded configuration, or the defaults when the root
// command did not run.
func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		return config.DefaultConfig()
	}
	return o.Config
}

func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
