package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewRankCommand creates the rank command.
func NewRankCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		pageSize  int
		maxPages  int
		joinOrder string
	)

	cmd := &cobra.Command{
		Use:   "rank <wlock-file> <event-count-file>",
		Short: "Merge two ranking sources by rank sum",
		Long: `Rank the WLOCK source and the EVENT_COUNT source by key, merge them by
rank sum and write full_rankings.csv plus Top<start>-<end>.csv pages into
processed_rankings next to <wlock-file>.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := &rootOpts.cfg.Ranking
			if cmd.Flags().Changed("page-size") {
				rc.PageSize = pageSize
			}
			if cmd.Flags().Changed("max-pages") {
				rc.MaxPages = maxPages
			}
			if cmd.Flags().Changed("join-order") {
				rc.JoinOrder = joinOrder
			}
			if err := validateRankFlags(rc.PageSize, rc.MaxPages, rc.JoinOrder); err != nil {
				return err
			}

			svc, err := NewService(rootOpts.cfg, rootOpts.log)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid ranking columns", err)
			}
			primary, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			secondary, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}
			res, err := svc.Rank(cmd.Context(), primary, secondary)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.OutputDir)
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 0, "entries per page file (default from config)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum page files, 0 for all (default from config)")
	cmd.Flags().StringVar(&joinOrder, "join-order", "", "tie order before the rank-sum sort (key|source)")
	return cmd
}

func validateRankFlags(pageSize, maxPages int, joinOrder string) error {
	switch {
	case pageSize < 1:
		return WrapExitError(ExitCommandError, "invalid flags", fmt.Errorf("page size must be positive, got %d", pageSize))
	case maxPages < 0:
		return WrapExitError(ExitCommandError, "invalid flags", fmt.Errorf("max pages must not be negative, got %d", maxPages))
	case joinOrder != "key" && joinOrder != "source":
		return WrapExitError(ExitCommandError, "invalid flags", fmt.Errorf("join order must be key or source, got %q", joinOrder))
	}
	return nil
}
