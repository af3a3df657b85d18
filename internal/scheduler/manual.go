package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler whose clock only moves when Advance is called.
// Due tasks run on the goroutine calling Advance, in deadline order.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks map[uint64]*manualTask
}

type manualTask struct {
	id       uint64
	next     time.Time
	interval time.Duration
	task     func()
}

type manualHandle struct {
	m  *Manual
	id uint64
}

// NewManual returns a Manual scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{
		now:   start,
		tasks: make(map[uint64]*manualTask),
	}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

func (m *Manual) Every(interval time.Duration, task func()) Handle {
	return m.schedule(interval, interval, task)
}

func (m *Manual) After(delay time.Duration, task func()) Handle {
	return m.schedule(delay, 0, task)
}

func (m *Manual) schedule(delay, interval time.Duration, task func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.tasks[m.seq] = &manualTask{
		id:       m.seq,
		next:     m.now.Add(delay),
		interval: interval,
		task:     task,
	}

	return &manualHandle{m: m, id: m.seq}
}

// Pending returns the number of tasks that can still run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.tasks)
}

// Advance moves the clock forward by d, running every task that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}

		m.now = next.next
		if next.interval > 0 {
			next.next = next.next.Add(next.interval)
		} else {
			delete(m.tasks, next.id)
		}
		task := next.task
		m.mu.Unlock()

		task()
	}
}

func (m *Manual) nextDue(target time.Time) *manualTask {
	due := make([]*manualTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		if !t.next.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].next.Equal(due[j].next) {
			return due[i].id < due[j].id
		}
		return due[i].next.Before(due[j].next)
	})

	return due[0]
}

func (h *manualHandle) Cancel() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()

	delete(h.m.tasks, h.id)
}
