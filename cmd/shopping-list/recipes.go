package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shopping-list/internal/clipper"
	"shopping-list/internal/recipe"
)

// newInitCommand creates the `shopping-list init` command.
func newInitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the recipe directory and write a sample recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			written, err := e.app.SeedSample()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if written {
				fmt.Fprintf(out, "Wrote sample recipe to %s\n", e.store.Path())
			} else {
				fmt.Fprintf(out, "Sample recipe already present in %s\n", e.store.Path())
			}
			return nil
		},
	}
}

// newRecipesCommand creates the `shopping-list recipes` command.
func newRecipesCommand(opts *rootOptions) *cobra.Command {
	var tagFlag string

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List the recipes in the recipe directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			recipes := e.app.Recipes()
			if tagFlag != "" {
				tag, err := recipe.ParseTag(tagFlag)
				if err != nil {
					return err
				}
				recipes = e.app.RecipesWithTag(tag)
			}

			out := cmd.OutOrStdout()
			if len(recipes) == 0 {
				fmt.Fprintln(out, "No recipes found.")
				return nil
			}
			for _, r := range recipes {
				fmt.Fprintf(out, "%s (%d ingredients)", r.Name, len(r.Ingredients))
				if len(r.Tags) > 0 {
					tags := make([]string, len(r.Tags))
					for i, t := range r.Tags {
						tags[i] = t.String()
					}
					fmt.Fprintf(out, " [%s]", strings.Join(tags, ", "))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tagFlag, "tag", "", "only list recipes with this tag, e.g. MealType:Dinner")
	return cmd
}

// newClipCommand creates the `shopping-list clip` command.
func newClipCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clip <url>",
		Short: "Import a recipe from a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := clipper.NewClipper(e.app).ClipURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved %q with %d ingredients\n", res.Recipe.Name, len(res.Recipe.Ingredients))
			for _, line := range res.Skipped {
				fmt.Fprintf(out, "  skipped: %s\n", line)
			}
			return nil
		},
	}
}
