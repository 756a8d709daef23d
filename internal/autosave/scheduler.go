package autosave

import "time"

// CancelFunc cancels a scheduled task. Calling it after the task has run is a
// no-op.
type CancelFunc func()

// Scheduler schedules a function to run once after a delay. Injecting it
// decouples the queue from any particular timer API and lets tests drive the
// debounce with a virtual clock.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler runs tasks on real timers.
type TimerScheduler struct{}

// NewTimerScheduler returns the production scheduler backed by time.AfterFunc.
func NewTimerScheduler() TimerScheduler {
	return TimerScheduler{}
}

func (TimerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
