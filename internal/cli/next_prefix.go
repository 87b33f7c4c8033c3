package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qdiagx/internal/naming"
)

// PrefixInfo is the output identity a pass over a prefix would produce.
type PrefixInfo struct {
	InPrefix    string `json:"in_prefix"`
	OutPrefix   string `json:"out_prefix"`
	InputPath   string `json:"input_path,omitempty"`
	EnglishPath string `json:"english_path,omitempty"`
	PicturePath string `json:"picture_path,omitempty"`
}

func (p PrefixInfo) String() string {
	if p.EnglishPath == "" {
		return p.OutPrefix
	}
	return strings.Join([]string{p.OutPrefix, p.EnglishPath, p.PicturePath}, "\n")
}

// NewNextPrefixCommand creates the next-prefix command.
func NewNextPrefixCommand(rootOpts *RootOptions) *cobra.Command {
	var bits int

	cmd := &cobra.Command{
		Use:   "next-prefix <prefix>",
		Short: "Print the output prefix a pass over <prefix> writes to",
		Long: `Print the output prefix a pass over <prefix> writes to: _X1 is
appended, or an existing _X<k> ending becomes _X<k+1>. With --bits the
output file names are printed as well.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			if bits < 0 {
				err := NewExitError(ExitCommandError, fmt.Sprintf("--bits must not be negative, got %d", bits))
				_ = formatter.Error("E_CONFIG", err.Error(), nil)
				return err
			}
			return formatter.Success(nextPrefix(args[0], bits))
		},
	}

	cmd.Flags().IntVarP(&bits, "bits", "n", 0, "number of bits; adds the file names")

	return cmd
}

func nextPrefix(prefix string, bits int) PrefixInfo {
	info := PrefixInfo{
		InPrefix:  prefix,
		OutPrefix: naming.XedPrefix(prefix),
	}
	if bits > 0 {
		info.InputPath = naming.EnglishPath(prefix, bits)
		info.EnglishPath = naming.EnglishPath(info.OutPrefix, bits)
		info.PicturePath = naming.PicturePath(info.OutPrefix, bits)
	}
	return info
}
