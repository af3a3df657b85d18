package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"codeberg.org/mutker/drivemon/internal/alert"
	"codeberg.org/mutker/drivemon/internal/app"
	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/config"
	"codeberg.org/mutker/drivemon/internal/contacts"
	"codeberg.org/mutker/drivemon/internal/display"
	"codeberg.org/mutker/drivemon/internal/drive"
	"codeberg.org/mutker/drivemon/internal/logger"
	"codeberg.org/mutker/drivemon/internal/pid"
	"codeberg.org/mutker/drivemon/internal/scheduler"
	"codeberg.org/mutker/drivemon/internal/telemetry"
	"github.com/spf13/cobra"
)

// printer serializes output from the refresh loop and alert listeners.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printer) Println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, s)
}

func newRunCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start a simulated drive and stream biometric readings",
		Long: "Start a drive, sample biometrics until interrupted or --duration elapses,\n" +
			"then print a summary of the drive.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := c.contacts.registry()
			if err != nil {
				return err
			}

			return runDrive(cmd.Context(), c.cfg, registry, cmd.OutOrStdout())
		},
	}
}

func runDrive(parent context.Context, cfg *config.Config, registry *contacts.Registry, out io.Writer) error {
	if err := pid.Write(""); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(""); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	ctrl, err := newController(cfg, registry)
	if err != nil {
		return err
	}

	p := &printer{out: out}
	ctrl.OnAlert(func(a alert.Alert) {
		p.Println(display.Alert(a))
	})

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	if cfg.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}
	go handleSignals(ctx, cancel)

	ctrl.StartDrive()
	loop(ctx, ctrl, cfg.SampleInterval, p)

	summary, _ := ctrl.StopDrive()
	if err := ctrl.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close drive session")
	}

	p.Println(renderSummary(summary))
	logger.Info().Msg("Exiting...")

	return nil
}

func newController(cfg *config.Config, registry *contacts.Registry) (*app.Controller, error) {
	collector, err := telemetry.NewService(cfg.TelemetryConfig(), logger.New("telemetry"))
	if err != nil {
		return nil, err
	}

	return app.New(
		scheduler.New(),
		biometric.NewSource(cfg.Seed),
		app.Config{
			TickInterval:   cfg.TickInterval,
			SampleInterval: cfg.SampleInterval,
			Alerts:         cfg.AlertConfig(),
		},
		app.WithTelemetry(collector),
		app.WithContacts(registry),
		app.WithLogger(logger.New("drive")),
	)
}

// loop prints the drive state every interval until ctx is done.
func loop(ctx context.Context, ctrl *app.Controller, interval time.Duration, p *printer) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.Println(renderState(ctrl.State()))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Println(renderState(ctrl.State()))
		}
	}
}

func handleSignals(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal.")
		cancel()
	case <-ctx.Done():
	}
}

func renderState(s app.State) string {
	return display.DriveLine(s.Drive) + "\n" + display.Snapshot(s.Snapshot)
}

func renderSummary(s app.Summary) string {
	lines := []string{
		display.Dim("drive    ") + s.ID,
		display.Dim("started  ") + s.StartedAt.Format(time.RFC3339),
		display.Dim("duration ") + display.Bold(drive.FormatElapsed(s.Elapsed)),
		display.Dim("samples  ") + fmt.Sprint(s.Samples),
		display.Dim("alerts   ") + fmt.Sprint(s.Alerts),
	}

	return display.RenderBox("Drive summary", strings.Join(lines, "\n"))
}
