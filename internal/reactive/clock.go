package reactive

import "time"

// Timer is a pending callback scheduled by a [Clock].
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules callbacks with [time.AfterFunc].
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
