package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"qdiagx/internal/circuit"
	"qdiagx/internal/config"
	"qdiagx/internal/dispatch"
	"qdiagx/internal/emit"
	"qdiagx/internal/expand"
)

// ExpandOptions holds the flags of the expand command.
type ExpandOptions struct {
	Bits   int
	Style  string
	Gbits  []int
	Verify bool
	Watch  bool
}

// NewExpandCommand creates the expand command.
func NewExpandCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExpandOptions{}

	cmd := &cobra.Command{
		Use:   "expand <prefix>",
		Short: "Rewrite every DIAG line of <prefix>_<N>_eng.txt",
		Long: `Read <prefix>_<N>_eng.txt, replace each DIAG line by its expansion
in the chosen style and write <out>_<N>_eng.txt and <out>_<N>_ZLpic.txt, where
<out> is <prefix> with its _X<k> suffix incremented (or _X1 appended).

Every other line is copied unchanged.

Flags override the configuration file and the QDIAGX_* environment.`,
		Example: `  qdiagx expand circuit -n 6
  qdiagx expand circuit -n 6 --style oracular --gbits 5
  qdiagx expand circuit_X1 -n 6 --verify --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Bits, "bits", "n", 0, "number of bits in the register")
	cmd.Flags().StringVar(&opts.Style, "style", "exact",
		fmt.Sprintf("decomposition style (%s)", strings.Join(emit.StyleNames(), "|")))
	cmd.Flags().IntSliceVar(&opts.Gbits, "gbits", nil, "grounded bits, comma separated")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "simulate every expansion against its DIAG line")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "rerun whenever the input file changes")

	return cmd
}

// resolveExpand merges the command flags over the loaded configuration.
func resolveExpand(rootOpts *RootOptions, opts *ExpandOptions, prefix string, cmd *cobra.Command) (expand.Options, error) {
	cfg := *rootOpts.config()
	cfg.GroundedBits = slices.Clone(cfg.GroundedBits)

	flags := cmd.Flags()
	if flags.Changed("bits") {
		cfg.NumBits = opts.Bits
	}
	if flags.Changed("style") {
		cfg.Style = opts.Style
	}
	if flags.Changed("gbits") {
		cfg.GroundedBits = slices.Clone(opts.Gbits)
	}
	if flags.Changed("verify") {
		cfg.Verify = opts.Verify
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return expand.Options{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if cfg.NumBits == 0 {
		return expand.Options{}, NewExitError(ExitCommandError,
			fmt.Sprintf("register size not set: use --bits, num_bits or %s", config.EnvBits))
	}
	style, err := emit.ParseStyle(cfg.Style)
	if err != nil {
		return expand.Options{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	return expand.Options{
		Prefix:   prefix,
		NumBits:  cfg.NumBits,
		Style:    style,
		Grounded: cfg.GroundedBits,
		Verify:   cfg.Verify,
		Logger:   rootOpts.logger(),
	}, nil
}

func runExpand(rootOpts *RootOptions, opts *ExpandOptions, prefix string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	xopts, err := resolveExpand(rootOpts, opts, prefix, cmd)
	if err != nil {
		_ = formatter.Error("E_CONFIG", err.Error(), nil)
		return err
	}
	formatter.VerboseLog("expanding %s over %d bits (style %s, grounded %v)",
		xopts.Prefix, xopts.NumBits, xopts.Style, xopts.Grounded)

	if opts.Watch {
		return watchExpand(cmd.Context(), xopts, formatter)
	}
	return expandOnce(xopts, formatter)
}

// expandOnce runs one pass and reports its outcome.
func expandOnce(xopts expand.Options, formatter *OutputFormatter) error {
	res, err := expand.Run(xopts)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), errorDetails(err))
		if errors.Is(err, os.ErrNotExist) {
			return WrapExitError(ExitCommandError, "file not found", err)
		}
		return WrapExitError(ExitFailure, "expansion failed", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(res)
	}
	return formatter.Success(renderSummary(res))
}

// errorCode names the failure class of a pass error.
func errorCode(err error) string {
	var embErr *expand.EmbeddingError
	switch {
	case errors.As(err, &embErr):
		return string(embErr.Code)
	case errors.Is(err, circuit.ErrMalformedControlSpec):
		return "MALFORMED_CONTROL_SPEC"
	case errors.Is(err, circuit.ErrBitRange):
		return "BIT_RANGE"
	case errors.Is(err, circuit.ErrSyntax):
		return "SYNTAX"
	case errors.Is(err, dispatch.ErrUnbalancedLoop):
		return "UNBALANCED_LOOP"
	case errors.Is(err, emit.ErrAngleCount):
		return "ANGLE_COUNT"
	case errors.Is(err, emit.ErrNoGroundedBits):
		return "NO_GROUNDED_BITS"
	case errors.Is(err, expand.ErrVerification):
		return "VERIFICATION"
	case errors.Is(err, os.ErrNotExist):
		return "FILE_NOT_FOUND"
	default:
		return "PASS_FAILED"
	}
}

// errorDetails returns the offending line of a pass error, if any.
func errorDetails(err error) any {
	var lineErr *dispatch.LineError
	if !errors.As(err, &lineErr) {
		return nil
	}
	return map[string]any{
		"line": lineErr.Num,
		"text": lineErr.Raw,
	}
}

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9e64"))
	summaryKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Width(10)
	summaryValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
)

// renderSummary renders a pass result for the terminal.
func renderSummary(res *expand.Result) string {
	rows := [][2]string{
		{"input", res.InputPath},
		{"english", res.EnglishPath},
		{"picture", res.PicturePath},
		{"style", res.Style},
		{"lines", fmt.Sprintf("%d (%d echoed)", res.Stats.Lines, res.Stats.Echoed)},
		{"diags", fmt.Sprintf("%d expanded into %d lines", res.Stats.Diags, res.Stats.Emitted)},
	}
	out := []string{summaryTitle.Render(res.InPrefix + " -> " + res.OutPrefix)}
	for _, r := range rows {
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, summaryKey.Render(r[0]), summaryValue.Render(r[1])))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
