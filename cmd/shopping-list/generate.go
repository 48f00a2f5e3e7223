package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shopping-list/internal/app"
	"shopping-list/internal/shopping"
)

// newGenerateCommand creates the `shopping-list generate` command.
func newGenerateCommand(opts *rootOptions) *cobra.Command {
	var (
		fileName   string
		dir        string
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:   "generate <recipe>...",
		Short: "Merge the named recipes into one shopping list",
		Long: `Merge the named recipes into one shopping list.

Without --file the report is printed to stdout. With --file it is written to
--dir (default: REPORT_DIR), replacing any existing file of that name.

Examples:
  shopping-list generate "Sante Fe Pork Tacos"
  shopping-list generate "Sante Fe Pork Tacos" Guacamole --file groceries.txt --format print`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			format := e.cfg.ReportFormat
			if formatFlag != "" {
				if format, err = shopping.ParseFormat(formatFlag); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("file") {
				res, err := e.app.Report(cmd.Context(), "cli", args, format)
				if err != nil {
					return err
				}
				fmt.Fprint(out, res.Report)
				return nil
			}

			if !cmd.Flags().Changed("dir") {
				dir = e.cfg.ReportDir
			}
			res, err := e.app.Export(cmd.Context(), app.ExportRequest{
				Recipes:  args,
				Dir:      dir,
				FileName: fileName,
				Format:   format,
				Source:   "cli",
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d ingredients to %s\n", res.List.Len(), res.Path)
			if res.ListID != "" {
				fmt.Fprintf(out, "History ID: %s\n", res.ListID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&fileName, "file", "f", "", "report file name")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the report to")
	cmd.Flags().StringVar(&formatFlag, "format", "", "report format: print or notes (default: REPORT_FORMAT)")
	return cmd
}
