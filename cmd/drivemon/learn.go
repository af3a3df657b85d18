package main

import (
	"fmt"
	"slices"

	"codeberg.org/mutker/drivemon/internal/display"
	"codeberg.org/mutker/drivemon/internal/errors"
	"codeberg.org/mutker/drivemon/internal/fixtures"
	"github.com/spf13/cobra"
)

func newLearnCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "List articles on driver health and safety",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := make(map[string]string)
			for _, c := range fixtures.Categories() {
				names[c.ID] = c.Name
			}
			if _, ok := names[category]; category != "" && !ok {
				ids := make([]string, 0, len(names))
				for id := range names {
					ids = append(ids, id)
				}
				slices.Sort(ids)
				return errors.New().WithData(errors.ErrInvalidArgument,
					fmt.Sprintf("unknown category %q, expected one of %v", category, ids))
			}

			articles := fixtures.ArticlesByCategory(category)
			rows := make([][]string, 0, len(articles))
			for _, a := range articles {
				rows = append(rows, []string{a.Title, names[a.Category], a.ReadTime})
				rows = append(rows, []string{display.Dim(a.Excerpt), "", ""})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, display.Header("Learn"))
			fmt.Fprint(out, display.RenderTable([]string{"TITLE", "CATEGORY", "READ"}, rows))

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only show articles of this category")

	return cmd
}
