package autosave

import "time"

// Timer is the part of *time.Timer the scheduler relies on.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

type Clock interface {
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by the time package.
var RealClock Clock = realClock{}
