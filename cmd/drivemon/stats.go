package main

import (
	"fmt"
	"strconv"

	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/display"
	"codeberg.org/mutker/drivemon/internal/fixtures"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show weekly statistics and biometric trends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			stats := fixtures.Stats()
			rows := make([][]string, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, []string{s.Title, s.Value + " " + s.Unit, formatChange(s.Change)})
			}
			fmt.Fprintln(out, display.Header("This week"))
			fmt.Fprint(out, display.RenderTable([]string{"STAT", "VALUE", "CHANGE"}, rows))
			fmt.Fprintln(out)

			series := fixtures.ChartSeries()
			rows = rows[:0]
			for _, s := range series {
				p := biometric.ProfileOf(s.Channel)
				sum := s.Summary()
				rows = append(rows, []string{
					p.Name,
					formatFloat(sum.Min),
					formatFloat(sum.Max),
					formatFloat(sum.Mean),
					p.Unit,
				})
			}
			fmt.Fprintln(out, display.Header("Biometric trends"))
			fmt.Fprint(out, display.RenderTable([]string{"CHANNEL", "MIN", "MAX", "MEAN", "UNIT"}, rows))

			return nil
		},
	}
}

// formatChange renders a week-over-week delta. Positive changes are good news.
func formatChange(c fixtures.Change) string {
	if c.IsPositive {
		return display.StatusStyle(biometric.StatusNormal).Render("▲ " + strconv.Itoa(c.Value) + "%")
	}

	return display.StatusStyle(biometric.StatusCritical).Render("▼ " + strconv.Itoa(c.Value) + "%")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
