package scheduler

import (
	"sync"
	"time"
)

type system struct{}

// New returns a Scheduler backed by the wall clock. Every handle owns one
// goroutine that exits when the handle is cancelled or a one-shot task has run.
func New() Scheduler {
	return system{}
}

func (system) Now() time.Time {
	return time.Now()
}

func (system) Every(interval time.Duration, task func()) Handle {
	h := newHandle()
	ticker := time.NewTicker(interval)

	go func() {
		defer close(h.exited)
		defer ticker.Stop()

		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				h.run(task)
			}
		}
	}()

	return h
}

func (system) After(delay time.Duration, task func()) Handle {
	h := newHandle()
	timer := time.NewTimer(delay)

	go func() {
		defer close(h.exited)
		defer timer.Stop()

		select {
		case <-h.done:
		case <-timer.C:
			h.run(task)
		}
	}()

	return h
}

type handle struct {
	mu        sync.Mutex
	cancelled bool
	once      sync.Once
	done      chan struct{}
	exited    chan struct{}
}

func newHandle() *handle {
	return &handle{
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// run executes task unless the handle was cancelled. The lock is held for
// the whole run so Cancel blocks until an in-flight task finishes.
func (h *handle) run(task func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return
	}
	task()
}

func (h *handle) Cancel() {
	h.once.Do(func() {
		h.mu.Lock()
		h.cancelled = true
		h.mu.Unlock()

		close(h.done)
	})
	<-h.exited
}
