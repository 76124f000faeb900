package session

import "time"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock (with monotonic reading)
func SystemClock() Clock {
	return systemClock{}
}
