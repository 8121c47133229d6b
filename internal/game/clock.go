package game

import "time"

// Clock supplies wall-clock time so the regeneration math is testable
// without real waiting.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
