package services

import "time"

// Clock supplies the current time to the lifecycle coordinator. Injected so
// the check-in window and audit timestamps are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return systemClock{} }
