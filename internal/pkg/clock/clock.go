// Package clock abstracts the current time behind a small interface so that
// time-sensitive logic (OTP expiry, cooldowns) can be tested with a fixed or
// steppable clock instead of time.Now.
package clock

import "time"

// Clocker is the time source used by business logic.
type Clocker interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// New returns a SystemClock.
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current system time.
func (*SystemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clocker pinned to a single instant, useful in tests.
type Fixed struct {
	At time.Time
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time {
	return f.At
}
