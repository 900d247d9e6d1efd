package balances

import "time"

// Clock supplies the current time to the manager. Injected at construction so
// tests can pin approve timestamps without global state.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }
