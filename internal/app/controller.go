// Package app ties the drive tracker, the biometric monitor and the alert
// manager into one drive session.
package app

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/drivemon/internal/alert"
	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/contacts"
	"codeberg.org/mutker/drivemon/internal/drive"
	"codeberg.org/mutker/drivemon/internal/errors"
	"codeberg.org/mutker/drivemon/internal/logger"
	"codeberg.org/mutker/drivemon/internal/scheduler"
	"codeberg.org/mutker/drivemon/internal/telemetry"
	"github.com/google/uuid"
)

const telemetryTimeout = 5 * time.Second

type Config struct {
	TickInterval   time.Duration
	SampleInterval time.Duration
	Alerts         alert.Config
}

func DefaultConfig() Config {
	return Config{
		TickInterval:   drive.DefaultTickInterval,
		SampleInterval: biometric.DefaultSampleInterval,
		Alerts:         alert.DefaultConfig(),
	}
}

// Summary describes a finished drive.
type Summary struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Elapsed   time.Duration
	Samples   int
	Alerts    int
}

// State is a read-only view of the controller.
type State struct {
	DriveID  string
	Drive    drive.Status
	Snapshot biometric.Snapshot
	Alerts   []alert.Alert
}

type Controller struct {
	sched     scheduler.Scheduler
	drive     *drive.Tracker
	monitor   *biometric.Monitor
	alerts    *alert.Manager
	contacts  *contacts.Registry
	telemetry telemetry.Collector
	log       logger.Logger

	// session serializes StartDrive and StopDrive.
	session   sync.Mutex
	mu        sync.Mutex
	driveID   string
	startedAt time.Time
	samples   int
	alertsN   int
	closeOnce sync.Once
}

type Option func(*options)

type options struct {
	log       logger.Logger
	telemetry telemetry.Collector
	contacts  *contacts.Registry
}

func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithTelemetry forwards samples, alerts and finished drives to c.
func WithTelemetry(c telemetry.Collector) Option {
	return func(o *options) {
		o.telemetry = c
	}
}

// WithContacts sets the emergency contacts notified by health alerts.
func WithContacts(r *contacts.Registry) Option {
	return func(o *options) {
		o.contacts = r
	}
}

func New(sched scheduler.Scheduler, src biometric.Source, cfg Config, opts ...Option) (*Controller, error) {
	o := &options{log: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.contacts == nil {
		o.contacts = contacts.NewRegistry(contacts.Defaults()...)
	}
	if o.telemetry == nil {
		collector, err := telemetry.NewService(telemetry.DefaultConfig(), o.log)
		if err != nil {
			return nil, errors.New().Wrap(errors.ErrInitApp, err)
		}
		o.telemetry = collector
	}

	c := &Controller{
		sched: sched,
		drive: drive.NewTracker(sched,
			drive.WithTickInterval(cfg.TickInterval),
			drive.WithLogger(o.log)),
		monitor: biometric.NewMonitor(sched, src,
			biometric.WithInterval(cfg.SampleInterval),
			biometric.WithLogger(o.log)),
		alerts: alert.NewManager(sched, cfg.Alerts,
			alert.WithContacts(o.contacts),
			alert.WithLogger(o.log)),
		contacts:  o.contacts,
		telemetry: o.telemetry,
		log:       o.log,
	}

	c.monitor.OnSample(c.onSample)
	c.alerts.OnAlert(c.onAlert)

	return c, nil
}

// StartDrive starts the tracker and the monitor and arms the simulated
// alerts. It returns false if a drive is already active.
func (c *Controller) StartDrive() bool {
	c.session.Lock()
	defer c.session.Unlock()

	if !c.drive.Start() {
		return false
	}

	c.mu.Lock()
	c.driveID = uuid.NewString()
	c.startedAt = c.drive.Status().StartedAt
	c.samples = 0
	c.alertsN = 0
	id := c.driveID
	c.mu.Unlock()

	c.log.Debug().Str("drive_id", id).Msg("Drive session opened")

	c.monitor.Start()
	c.alerts.Arm()

	return true
}

// StopDrive stops the drive and returns its summary. It returns false if no
// drive was active.
func (c *Controller) StopDrive() (Summary, bool) {
	c.session.Lock()
	defer c.session.Unlock()

	if !c.drive.Stop() {
		return Summary{}, false
	}

	c.monitor.Stop()
	c.alerts.Disarm()

	status := c.drive.Status()

	c.mu.Lock()
	summary := Summary{
		ID:        c.driveID,
		StartedAt: c.startedAt,
		EndedAt:   c.sched.Now(),
		Elapsed:   status.Elapsed,
		Samples:   c.samples,
		Alerts:    c.alertsN,
	}
	c.driveID = ""
	c.mu.Unlock()

	c.log.Info().
		Str("drive_id", summary.ID).
		Str("elapsed", status.ElapsedFormatted).
		Int("samples", summary.Samples).
		Int("alerts", summary.Alerts).
		Msg("Drive summary")

	ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
	defer cancel()
	err := c.telemetry.RecordDrive(ctx, &telemetry.Drive{
		ID:        summary.ID,
		StartedAt: summary.StartedAt,
		EndedAt:   summary.EndedAt,
		Elapsed:   summary.Elapsed,
		Samples:   summary.Samples,
		Alerts:    summary.Alerts,
	})
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to record drive")
	}

	return summary, true
}

// ToggleDrive starts an inactive drive or stops an active one and returns
// whether a drive is active afterwards.
func (c *Controller) ToggleDrive() bool {
	if c.drive.IsActive() {
		c.StopDrive()
		return false
	}

	return c.StartDrive()
}

// OnAlert registers fn to receive every alert, in or outside a drive.
func (c *Controller) OnAlert(fn func(alert.Alert)) {
	c.alerts.OnAlert(fn)
}

// RaiseAlert fires an alert of the given kind immediately.
func (c *Controller) RaiseAlert(kind alert.Kind) alert.Alert {
	return c.alerts.Raise(kind)
}

func (c *Controller) Contacts() *contacts.Registry {
	return c.contacts
}

func (c *Controller) State() State {
	c.mu.Lock()
	id := c.driveID
	c.mu.Unlock()

	return State{
		DriveID:  id,
		Drive:    c.drive.Status(),
		Snapshot: c.monitor.Snapshot(),
		Alerts:   c.alerts.Recent(),
	}
}

// Close stops an active drive and releases the trackers and telemetry.
func (c *Controller) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.StopDrive()

		c.drive.Close()
		c.monitor.Close()
		c.alerts.Close()

		if err := c.telemetry.Close(); err != nil {
			closeErr = errors.New().Wrap(errors.ErrShutdownFailed, err)
		}
	})

	return closeErr
}

func (c *Controller) onSample(snap biometric.Snapshot) {
	c.mu.Lock()
	id := c.driveID
	if id != "" {
		c.samples++
	}
	c.mu.Unlock()

	if id == "" {
		return
	}

	c.alerts.Evaluate(snap)

	ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
	defer cancel()
	if err := c.telemetry.RecordSample(ctx, &telemetry.Sample{DriveID: id, Snapshot: snap}); err != nil {
		c.log.Error().Err(err).Msg("Failed to record sample")
	}
}

func (c *Controller) onAlert(a alert.Alert) {
	c.mu.Lock()
	id := c.driveID
	if id != "" {
		c.alertsN++
	}
	c.mu.Unlock()

	if id == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
	defer cancel()
	err := c.telemetry.RecordAlert(ctx, &telemetry.Alert{
		ID:       a.ID,
		DriveID:  id,
		Kind:     a.Kind.String(),
		Trigger:  a.Trigger.String(),
		RaisedAt: a.RaisedAt,
	})
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to record alert")
	}
}
