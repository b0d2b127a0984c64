package parking

import "time"

// Clock is the core's sole source of time, injected so tests can control
// ordering without sleeping (spec.md §1: "time sources beyond a monotonic
// clock... are abstract injectable collaborators").
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock used outside tests.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
