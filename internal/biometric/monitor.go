package biometric

import (
	"sync"
	"time"

	"codeberg.org/mutker/drivemon/internal/logger"
	"codeberg.org/mutker/drivemon/internal/scheduler"
)

// DefaultSampleInterval is the period between two snapshots.
const DefaultSampleInterval = 3 * time.Second

// Monitor samples all channels on a fixed period while active.
type Monitor struct {
	mu       sync.Mutex
	sched    scheduler.Scheduler
	src      Source
	log      logger.Logger
	interval time.Duration

	active    bool
	snapshot  Snapshot
	handle    scheduler.Handle
	run       uint64
	closed    bool
	listeners []func(Snapshot)
}

type Option func(*Monitor)

// WithInterval overrides DefaultSampleInterval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(m *Monitor) {
		m.log = log
	}
}

func NewMonitor(sched scheduler.Scheduler, src Source, opts ...Option) *Monitor {
	m := &Monitor{
		sched:    sched,
		src:      src,
		log:      logger.Nop(),
		interval: DefaultSampleInterval,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// OnSample registers fn to receive every new snapshot. Listeners run after
// the snapshot is stored, outside the monitor lock.
func (m *Monitor) OnSample(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, fn)
}

// Start activates monitoring, takes one sample immediately and schedules the
// next ones. It returns false if monitoring is already active or the monitor
// is closed.
func (m *Monitor) Start() bool {
	m.mu.Lock()
	if m.active || m.closed {
		m.mu.Unlock()
		return false
	}

	m.run++
	run := m.run
	m.active = true
	snap := m.sampleLocked()
	m.handle = m.sched.Every(m.interval, func() { m.tick(run) })
	listeners := m.listeners
	m.mu.Unlock()

	m.log.Info().Dur("interval", m.interval).Msg("Biometric monitoring started")
	notify(listeners, snap)

	return true
}

// Stop cancels sampling and resets every channel to the inactive default.
// It returns false if monitoring was not active.
func (m *Monitor) Stop() bool {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return false
	}

	handle := m.detach()
	m.mu.Unlock()

	handle.Cancel()

	m.log.Info().Msg("Biometric monitoring stopped")

	return true
}

// Close stops monitoring and prevents restarts.
func (m *Monitor) Close() {
	m.mu.Lock()
	m.closed = true
	var handle scheduler.Handle
	if m.active {
		handle = m.detach()
	}
	m.mu.Unlock()

	if handle != nil {
		handle.Cancel()
	}
}

func (m *Monitor) detach() scheduler.Handle {
	handle := m.handle
	m.handle = nil
	m.active = false
	m.snapshot = Snapshot{}
	m.run++

	return handle
}

func (m *Monitor) tick(run uint64) {
	m.mu.Lock()
	if !m.active || run != m.run {
		m.mu.Unlock()
		return
	}

	snap := m.sampleLocked()
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, snap)
}

func (m *Monitor) sampleLocked() Snapshot {
	m.snapshot = SampleAll(m.src, m.sched.Now())

	m.log.Debug().
		Float64("heart_rate", m.snapshot.HeartRate.Value).
		Stringer("heart_rate_status", m.snapshot.HeartRate.Status).
		Float64("hrv", m.snapshot.HRV.Value).
		Stringer("hrv_status", m.snapshot.HRV.Status).
		Float64("gsr", m.snapshot.GSR.Value).
		Stringer("gsr_status", m.snapshot.GSR.Status).
		Float64("temperature", m.snapshot.Temperature.Value).
		Stringer("temperature_status", m.snapshot.Temperature.Status).
		Msg("Biometric sample")

	return m.snapshot
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}

func (m *Monitor) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active
}

// Snapshot returns the latest readings, or the inactive snapshot when
// monitoring is off.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshot
}
