package drive

import (
	"fmt"
	"sync"
	"time"

	"codeberg.org/mutker/drivemon/internal/logger"
	"codeberg.org/mutker/drivemon/internal/scheduler"
)

const (
	// DefaultTickInterval is how often the elapsed time is refreshed.
	DefaultTickInterval = time.Second

	zeroElapsed = "00:00:00"
)

// Status is a read-only view of a drive session.
type Status struct {
	Active           bool
	StartedAt        time.Time
	Elapsed          time.Duration
	ElapsedFormatted string
}

// Tracker owns whether a drive is active and how long it has been running.
type Tracker struct {
	mu       sync.Mutex
	sched    scheduler.Scheduler
	log      logger.Logger
	interval time.Duration

	active    bool
	startedAt time.Time
	elapsed   time.Duration
	handle    scheduler.Handle
	run       uint64
	closed    bool
}

type Option func(*Tracker)

// WithTickInterval overrides DefaultTickInterval.
func WithTickInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

func NewTracker(sched scheduler.Scheduler, opts ...Option) *Tracker {
	t := &Tracker{
		sched:    sched,
		log:      logger.Nop(),
		interval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Start begins a drive. It returns false if a drive is already active or the
// tracker has been closed.
func (t *Tracker) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active || t.closed {
		return false
	}

	t.run++
	run := t.run
	t.active = true
	t.startedAt = t.sched.Now()
	t.elapsed = 0
	t.handle = t.sched.Every(t.interval, func() { t.tick(run) })

	t.log.Info().Time("started_at", t.startedAt).Msg("Drive started")

	return true
}

// Stop ends the active drive. The last computed elapsed value is kept for
// display. It returns false if no drive was active.
func (t *Tracker) Stop() bool {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return false
	}

	handle := t.detach()
	elapsed := t.elapsed
	t.mu.Unlock()

	handle.Cancel()

	t.log.Info().Str("elapsed", FormatElapsed(elapsed)).Msg("Drive stopped")

	return true
}

// Close stops any active drive and prevents new ones.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	var handle scheduler.Handle
	if t.active {
		handle = t.detach()
	}
	t.mu.Unlock()

	if handle != nil {
		handle.Cancel()
	}
}

// detach marks the drive inactive and hands back its timer. Callers hold t.mu
// and cancel the handle after releasing it.
func (t *Tracker) detach() scheduler.Handle {
	handle := t.handle
	t.handle = nil
	t.active = false
	t.startedAt = time.Time{}
	t.run++

	return handle
}

func (t *Tracker) tick(run uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || run != t.run {
		return
	}

	t.elapsed = t.sched.Now().Sub(t.startedAt)
}

func (t *Tracker) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.active
}

// Elapsed returns the formatted elapsed time of the current or last drive.
func (t *Tracker) Elapsed() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return FormatElapsed(t.elapsed)
}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Status{
		Active:           t.active,
		StartedAt:        t.startedAt,
		Elapsed:          t.elapsed,
		ElapsedFormatted: FormatElapsed(t.elapsed),
	}
}

// FormatElapsed renders whole seconds of d as HH:MM:SS. Hours are not capped.
func FormatElapsed(d time.Duration) string {
	if d <= 0 {
		return zeroElapsed
	}

	seconds := int64(d / time.Second)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
