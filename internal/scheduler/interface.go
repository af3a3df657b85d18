package scheduler

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Handle is a scheduled task.
type Handle interface {
	// Cancel stops the task. When Cancel returns the task is not running
	// and will not run again. Cancel is idempotent and must not be called
	// from inside the task it cancels.
	Cancel()
}

// Scheduler runs tasks on a clock.
type Scheduler interface {
	Clock

	// Every runs task once per interval until the handle is cancelled.
	// The first run happens one interval after the call.
	Every(interval time.Duration, task func()) Handle

	// After runs task once, delay after the call, unless cancelled first.
	After(delay time.Duration, task func()) Handle
}
