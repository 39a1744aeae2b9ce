package notification

import "time"

// Clock abstracts time so the evaluator and stores can be tested with
// simulated time progression instead of real timers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }
