package drive_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/drivemon/internal/drive"
	"codeberg.org/mutker/drivemon/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 15, 45, 0, 0, time.UTC)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{999 * time.Millisecond, "00:00:00"},
		{7 * time.Second, "00:00:07"},
		{59*time.Minute + 59*time.Second, "00:59:59"},
		{time.Hour + 23*time.Minute, "01:23:00"},
		{27*time.Hour + 5*time.Second, "27:00:05"},
		{123 * time.Hour, "123:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, drive.FormatElapsed(tt.in), tt.in.String())
	}
}

func TestInitialStatus(t *testing.T) {
	tracker := drive.NewTracker(scheduler.NewManual(epoch))

	st := tracker.Status()
	assert.False(t, st.Active)
	assert.True(t, st.StartedAt.IsZero())
	assert.Equal(t, "00:00:00", st.ElapsedFormatted)
}

func TestStartStopRetainsElapsed(t *testing.T) {
	for n := 1; n < 60; n += 7 {
		clock := scheduler.NewManual(epoch)
		tracker := drive.NewTracker(clock)

		require.True(t, tracker.Start())
		st := tracker.Status()
		assert.True(t, st.Active)
		assert.Equal(t, epoch, st.StartedAt)

		clock.Advance(time.Duration(n) * time.Second)
		require.True(t, tracker.Stop())

		st = tracker.Status()
		assert.False(t, st.Active)
		assert.True(t, st.StartedAt.IsZero(), "startedAt is cleared when inactive")
		assert.Equal(t, drive.FormatElapsed(time.Duration(n)*time.Second), st.ElapsedFormatted)
		assert.Equal(t, 0, clock.Pending())
	}
}

func TestElapsedFrozenAfterStop(t *testing.T) {
	clock := scheduler.NewManual(epoch)
	tracker := drive.NewTracker(clock)

	tracker.Start()
	clock.Advance(5 * time.Second)
	tracker.Stop()
	clock.Advance(time.Hour)

	assert.Equal(t, "00:00:05", tracker.Elapsed())
}

func TestStartTwiceIsNoop(t *testing.T) {
	clock := scheduler.NewManual(epoch)
	tracker := drive.NewTracker(clock)

	require.True(t, tracker.Start())
	clock.Advance(2 * time.Second)
	assert.False(t, tracker.Start())

	assert.Equal(t, 1, clock.Pending())
	assert.Equal(t, epoch, tracker.Status().StartedAt)
	assert.Equal(t, "00:00:02", tracker.Elapsed())
}

func TestStopWhileInactiveIsNoop(t *testing.T) {
	clock := scheduler.NewManual(epoch)
	tracker := drive.NewTracker(clock)

	before := tracker.Status()
	assert.NotPanics(t, func() { assert.False(t, tracker.Stop()) })
	assert.Equal(t, before, tracker.Status())

	tracker.Start()
	clock.Advance(3 * time.Second)
	tracker.Stop()

	stopped := tracker.Status()
	assert.False(t, tracker.Stop())
	assert.Equal(t, stopped, tracker.Status())
}

func TestRestartResetsElapsed(t *testing.T) {
	clock := scheduler.NewManual(epoch)
	tracker := drive.NewTracker(clock)

	tracker.Start()
	clock.Advance(42 * time.Second)
	tracker.Stop()

	require.True(t, tracker.Start())
	assert.Equal(t, "00:00:00", tracker.Elapsed())

	clock.Advance(time.Second)
	assert.Equal(t, "00:00:01", tracker.Elapsed())
}

func TestHoursNotCapped(t *testing.T) {
	clock := scheduler.NewManual(epoch)
	tracker := drive.NewTracker(clock, drive.WithTickInterval(time.Minute))

	tracker.Start()
	clock.Advance(25*time.Hour + 30*time.Minute)

	assert.Equal(t, "25:30:00", tracker.Elapsed())
}

func TestCloseCancelsTimer(t *testing.T) {
	clock := scheduler.NewManual(epoch)
	tracker := drive.NewTracker(clock)

	tracker.Start()
	clock.Advance(4 * time.Second)
	tracker.Close()

	assert.Equal(t, 0, clock.Pending())
	assert.False(t, tracker.IsActive())
	assert.False(t, tracker.Start(), "a closed tracker cannot start")

	clock.Advance(time.Minute)
	assert.Equal(t, "00:00:04", tracker.Elapsed())
}

func TestWallClockTracker(t *testing.T) {
	tracker := drive.NewTracker(scheduler.New(), drive.WithTickInterval(10*time.Millisecond))
	t.Cleanup(tracker.Close)

	require.True(t, tracker.Start())
	require.Eventually(t, func() bool {
		return tracker.Status().Elapsed >= 30*time.Millisecond
	}, time.Second, 5*time.Millisecond)

	tracker.Stop()
	frozen := tracker.Status().Elapsed
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, tracker.Status().Elapsed)
}
