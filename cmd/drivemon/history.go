package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/display"
	"codeberg.org/mutker/drivemon/internal/drive"
	"codeberg.org/mutker/drivemon/internal/errors"
	"codeberg.org/mutker/drivemon/internal/fixtures"
	"codeberg.org/mutker/drivemon/internal/logger"
	"codeberg.org/mutker/drivemon/internal/telemetry"
	"github.com/spf13/cobra"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past drives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printFixtureHistory(out)

			if !c.cfg.Telemetry {
				return nil
			}
			if limit <= 0 {
				return errors.New().WithData(errors.ErrInvalidArgument, "--limit must be positive")
			}

			collector, err := telemetry.NewService(c.cfg.TelemetryConfig(), logger.New("telemetry"))
			if err != nil {
				return err
			}
			defer collector.Close()

			drives, err := collector.ListDrives(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printRecordedDrives(out, drives)

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of recorded drives to show")

	return cmd
}

func printFixtureHistory(out io.Writer) {
	records := fixtures.DriveHistory()
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date,
			r.Location,
			r.Duration,
			r.Distance,
			strconv.Itoa(r.Alerts),
			display.StatusBadge(r.Status),
		})
	}

	fmt.Fprintln(out, display.Header("Drive history"))
	fmt.Fprint(out, display.RenderTable([]string{"DATE", "ROUTE", "DURATION", "DISTANCE", "ALERTS", "STATUS"}, rows))
}

func printRecordedDrives(out io.Writer, drives []telemetry.Drive) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, display.Header("Recorded drives"))
	if len(drives) == 0 {
		fmt.Fprintln(out, display.Dim("No drives recorded yet."))
		return
	}

	rows := make([][]string, 0, len(drives))
	for _, d := range drives {
		status := biometric.StatusNormal
		if d.Alerts > 0 {
			status = biometric.StatusWarning
		}
		rows = append(rows, []string{
			d.ID[:min(8, len(d.ID))],
			d.StartedAt.Local().Format(time.DateTime),
			drive.FormatElapsed(d.Elapsed),
			strconv.Itoa(d.Samples),
			strconv.Itoa(d.Alerts),
			display.StatusBadge(status),
		})
	}

	fmt.Fprint(out, display.RenderTable([]string{"ID", "STARTED", "DURATION", "SAMPLES", "ALERTS", "STATUS"}, rows))
}
