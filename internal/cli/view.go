package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"qdiagx/internal/naming"
	"qdiagx/internal/view"
)

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	var bits int

	cmd := &cobra.Command{
		Use:   "view <prefix>",
		Short: "Show <prefix>_<N>_eng.txt next to its Picture file",
		Long: `Open a terminal viewer with the English file on the left and the
Picture file on the right. Both panes scroll together; tab moves the focus
and q quits.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			n := rootOpts.config().NumBits
			if cmd.Flags().Changed("bits") {
				n = bits
			}
			if n < 1 {
				err := NewExitError(ExitCommandError, "register size not set: use --bits or num_bits")
				_ = formatter.Error("E_CONFIG", err.Error(), nil)
				return err
			}

			prefix := args[0]
			m, err := view.Load(prefix, naming.EnglishPath(prefix, n), naming.PicturePath(prefix, n))
			if err != nil {
				_ = formatter.Error("FILE_NOT_FOUND", err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to open circuit", err)
			}

			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return WrapExitError(ExitFailure, "viewer failed", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&bits, "bits", "n", 0, "number of bits in the register")

	return cmd
}
