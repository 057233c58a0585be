package application

import "time"

// Clock abstraction so services can be tested with a fixed time.
type Clock interface {
	Now() time.Time
}

// SystemClock default implementation backed by time.Now().
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns the same instant on every call; test helper.
type FixedClock struct{ T time.Time }

func (f FixedClock) Now() time.Time { return f.T }
