package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewSplitCommand creates the split command.
func NewSplitCommand(rootOpts *RootOptions) *cobra.Command {
	var parts int

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split a file into contiguous chunk files",
		Long: `Split every row of <file>, the first line included, into chunk files
written to <dir>/<name>_split/output_1.csv ... output_N.csv. The last chunk
absorbs the rows left over by integer division.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("parts") {
				if parts < 1 {
					return WrapExitError(ExitCommandError, "invalid flags", fmt.Errorf("parts must be positive, got %d", parts))
				}
				rootOpts.cfg.Split.Parts = parts
			}
			svc, err := NewService(rootOpts.cfg, rootOpts.log)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid ranking columns", err)
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			res, err := svc.Split(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.OutputDir)
			return nil
		},
	}

	cmd.Flags().IntVarP(&parts, "parts", "n", 0, "number of chunk files (default from config)")
	return cmd
}
