package wifi

import "time"

// Timer is a restartable countdown with a non-blocking expiry check. The
// send confirmation loop polls it between reconciliation passes instead of
// suspending, so the adapter never sleeps while events may be pending.
type Timer interface {
	// Start arms the countdown with the given duration, discarding any
	// previous deadline.
	Start(d time.Duration)

	// Expired reports whether the armed countdown has elapsed. It returns
	// false for a timer that was never started.
	Expired() bool
}

// systemTimer implements Timer on the monotonic wall clock.
type systemTimer struct {
	deadline time.Time
}

// NewSystemTimer returns a Timer backed by time.Now.
func NewSystemTimer() Timer {
	return &systemTimer{}
}

func (t *systemTimer) Start(d time.Duration) {
	t.deadline = time.Now().Add(d)
}

func (t *systemTimer) Expired() bool {
	if t.deadline.IsZero() {
		return false
	}
	return !time.Now().Before(t.deadline)
}
