package util

import (
	"time"
)

// Timer measures one stage and reports it through the debug logger
type Timer struct {
	name  string
	start time.Time
}

// StartTimer starts a timer for the given stage name. It returns nil
// outside debug mode; Stop on a nil Timer is a no-op.
func StartTimer(name string) *Timer {
	if !IsDebug {
		return nil
	}
	return &Timer{name: name, start: time.Now()}
}

// Stop logs and returns the elapsed time
func (t *Timer) Stop() time.Duration {
	if t == nil {
		return 0
	}
	d := time.Since(t.start)
	Debug("[PERF] "+t.name, "took", d)
	return d
}
