package alert

import (
	"sync"
	"time"

	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/contacts"
	"codeberg.org/mutker/drivemon/internal/logger"
	"codeberg.org/mutker/drivemon/internal/scheduler"
	"github.com/google/uuid"
)

const (
	DefaultDrowsinessDelay = 8 * time.Second
	DefaultHealthDelay     = 15 * time.Second
	DefaultCooldown        = 60 * time.Second

	recentLimit = 20
)

// Alert is one raised alert.
type Alert struct {
	ID       string
	Kind     Kind
	Trigger  Trigger
	RaisedAt time.Time
	// Snapshot is set for threshold alerts.
	Snapshot biometric.Snapshot
	// Notified lists the emergency contacts a health alert was sent to.
	Notified []contacts.Contact
}

type Config struct {
	// DrowsinessDelay and HealthDelay schedule simulated alerts after Arm.
	// Zero disables the alert.
	DrowsinessDelay time.Duration
	HealthDelay     time.Duration
	// Thresholds enables Evaluate.
	Thresholds bool
	// Cooldown is the minimum gap between a threshold alert and the previous
	// alert of the same kind, whatever raised it.
	Cooldown time.Duration
}

func DefaultConfig() Config {
	return Config{
		DrowsinessDelay: DefaultDrowsinessDelay,
		HealthDelay:     DefaultHealthDelay,
		Thresholds:      true,
		Cooldown:        DefaultCooldown,
	}
}

// Manager raises alerts: on a timer after Arm, on request, or from biometric
// snapshots passed to Evaluate.
type Manager struct {
	mu       sync.Mutex
	sched    scheduler.Scheduler
	cfg      Config
	contacts *contacts.Registry
	log      logger.Logger

	armed     bool
	run       uint64
	pending   []scheduler.Handle
	last      map[Kind]time.Time
	recent    []Alert
	listeners []func(Alert)
	closed    bool
}

type Option func(*Manager)

func WithContacts(r *contacts.Registry) Option {
	return func(m *Manager) {
		m.contacts = r
	}
}

func WithLogger(log logger.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

func NewManager(sched scheduler.Scheduler, cfg Config, opts ...Option) *Manager {
	m := &Manager{
		sched: sched,
		cfg:   cfg,
		log:   logger.Nop(),
		last:  make(map[Kind]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// OnAlert registers fn to receive every raised alert.
func (m *Manager) OnAlert(fn func(Alert)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, fn)
}

// Arm schedules the simulated alerts of a new drive. Alerts pending from a
// previous Arm are cancelled first.
func (m *Manager) Arm() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	stale := m.disarmLocked()
	m.armed = true
	run := m.run

	schedule := func(kind Kind, delay time.Duration) {
		if delay <= 0 {
			return
		}
		m.pending = append(m.pending, m.sched.After(delay, func() { m.raiseTimed(run, kind) }))
	}
	schedule(KindDrowsiness, m.cfg.DrowsinessDelay)
	schedule(KindHealth, m.cfg.HealthDelay)
	m.mu.Unlock()

	cancelAll(stale)
}

// Disarm cancels pending simulated alerts.
func (m *Manager) Disarm() {
	m.mu.Lock()
	stale := m.disarmLocked()
	m.mu.Unlock()

	cancelAll(stale)
}

// Close disarms the manager and ignores later Arm calls.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	stale := m.disarmLocked()
	m.mu.Unlock()

	cancelAll(stale)
}

func (m *Manager) disarmLocked() []scheduler.Handle {
	stale := m.pending
	m.pending = nil
	m.armed = false
	m.run++

	return stale
}

func cancelAll(handles []scheduler.Handle) {
	for _, h := range handles {
		h.Cancel()
	}
}

func (m *Manager) raiseTimed(run uint64, kind Kind) {
	m.mu.Lock()
	if !m.armed || run != m.run {
		m.mu.Unlock()
		return
	}
	a, listeners := m.raiseLocked(kind, TriggerTimed, biometric.Snapshot{})
	m.mu.Unlock()

	m.publish(a, listeners)
}

// Raise fires an alert of the given kind immediately.
func (m *Manager) Raise(kind Kind) Alert {
	m.mu.Lock()
	a, listeners := m.raiseLocked(kind, TriggerManual, biometric.Snapshot{})
	m.mu.Unlock()

	m.publish(a, listeners)

	return a
}

// Evaluate raises an alert when snap calls for one: any critical channel is a
// health alert, HRV and GSR both below normal is a drowsiness alert. Repeats
// of a kind within the cooldown are suppressed.
func (m *Manager) Evaluate(snap biometric.Snapshot) (Alert, bool) {
	if !m.cfg.Thresholds {
		return Alert{}, false
	}

	kind, ok := classify(snap)
	if !ok {
		return Alert{}, false
	}

	m.mu.Lock()
	now := m.sched.Now()
	if last, seen := m.last[kind]; seen && now.Sub(last) < m.cfg.Cooldown {
		m.mu.Unlock()
		m.log.Debug().Stringer("kind", kind).Msg("Alert suppressed by cooldown")
		return Alert{}, false
	}
	a, listeners := m.raiseLocked(kind, TriggerThreshold, snap)
	m.mu.Unlock()

	m.publish(a, listeners)

	return a, true
}

func classify(snap biometric.Snapshot) (Kind, bool) {
	switch {
	case snap.Worst() == biometric.StatusCritical:
		return KindHealth, true
	case snap.HRV.Status != biometric.StatusInactive &&
		snap.GSR.Status != biometric.StatusInactive &&
		biometric.IsLow(biometric.HRV, snap.HRV.Value) &&
		biometric.IsLow(biometric.GSR, snap.GSR.Value):
		return KindDrowsiness, true
	default:
		return 0, false
	}
}

func (m *Manager) raiseLocked(kind Kind, trigger Trigger, snap biometric.Snapshot) (Alert, []func(Alert)) {
	a := Alert{
		ID:       uuid.NewString(),
		Kind:     kind,
		Trigger:  trigger,
		RaisedAt: m.sched.Now(),
		Snapshot: snap,
	}
	if kind == KindHealth && m.contacts != nil {
		a.Notified = m.contacts.List()
	}

	m.last[kind] = a.RaisedAt
	m.recent = append(m.recent, a)
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}

	return a, m.listeners
}

func (m *Manager) publish(a Alert, listeners []func(Alert)) {
	content := a.Kind.Content()
	m.log.Warn().
		Str("id", a.ID).
		Stringer("kind", a.Kind).
		Stringer("trigger", a.Trigger).
		Str("description", content.Description).
		Msg(content.Title)

	for _, c := range a.Notified {
		m.log.Warn().
			Str("alert_id", a.ID).
			Str("contact", c.Name).
			Str("phone", c.Phone).
			Msg("Emergency contact notified")
	}

	for _, fn := range listeners {
		fn(a)
	}
}

// Recent returns the latest alerts, oldest first.
func (m *Manager) Recent() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Alert, len(m.recent))
	copy(out, m.recent)

	return out
}

// Armed reports whether simulated alerts are scheduled for the current drive.
func (m *Manager) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.armed
}
