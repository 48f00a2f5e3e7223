package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shopping-list/internal/shopping"
)

// newHistoryCommand creates the `shopping-list history` command.
func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated shopping lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			records, err := e.app.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No shopping lists yet.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "%s  %s  %-5s  %s\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Format, strings.Join(r.Recipes, ", "))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of lists to show")
	return cmd
}

// newShowCommand creates the `shopping-list show` command.
func newShowCommand(opts *rootOptions) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a shopping list from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			rec, err := e.app.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			format := rec.Format
			if formatFlag != "" {
				if format, err = shopping.ParseFormat(formatFlag); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), rec.List.Render(format))
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "report format: print or notes (default: the stored format)")
	return cmd
}
