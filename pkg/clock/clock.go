// Package clock abstracts wall-clock time and timer creation so the
// scheduler and coordinator can be driven deterministically in tests.
package clock

import "time"

// Timer is a handle to a pending callback. Stop reports whether the
// callback was prevented from running.
type Timer interface {
	Stop() bool
}

// Clock provides the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real implements Clock with the standard time package.
type Real struct{}

// Now returns the current local time.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc schedules f to run after d on its own goroutine.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
