package deck

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the timer. It returns false if the timer already fired
	// or was stopped.
	Stop() bool
}

// Timers schedules callbacks. Implementations must invoke callbacks on the
// same goroutine that drives the Deck; the engine is not safe for
// concurrent use.
type Timers interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}
