package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"shopping-list/internal/metrics"
)

// newMetricsCommand creates the `shopping-list metrics` command.
func newMetricsCommand(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show daily generation counts and system health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			usage, err := e.metrics.GetDailyUsage(cmd.Context(), days)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(usage) == 0 {
				fmt.Fprintln(out, "No generations recorded.")
			}
			for _, d := range usage {
				fmt.Fprintf(out, "%s  %3d lists  %4d recipes  %5d ingredients  %6.1fms avg\n",
					d.Date, d.Generations, d.TotalRecipes, d.TotalIngredients, d.AvgLatencyMS)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, metrics.GetSysHealth(filepath.Dir(e.cfg.DatabasePath)).Summary())
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "number of days to report")
	return cmd
}

// newMetricsCleanupCommand creates the `shopping-list metrics-cleanup` command.
func newMetricsCleanupCommand(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Remove old metric records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			affected, err := e.metrics.Cleanup(cmd.Context(), days)
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully removed %d old metric records.\n", affected)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "keep records for the last N days")
	return cmd
}
