// Package timing provides sleep primitives with sub-millisecond accuracy.
package timing

import (
	"context"
	"runtime"
	"time"
)

const (
	// spinThreshold is the longest wait that is spun entirely.
	spinThreshold = 40 * time.Millisecond

	// spinTail is how much of a longer wait is left for the spin phase.
	spinTail = 20 * time.Millisecond
)

// Sleep blocks until d has elapsed.
//
// OS sleeps overshoot by up to a scheduler quantum, so only the head of a long
// wait is handed to time.Sleep and the final spinTail is spun against the
// monotonic clock. Waits at or below spinThreshold are spun entirely.
func Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)

	if d > spinThreshold {
		time.Sleep(d - spinTail)
	}
	spinUntil(deadline)
}

func spinUntil(deadline time.Time) {
	for time.Now().Before(deadline) {
		runtime.Gosched()
	}
}

// Wait is a plain timer wait for loops that do not need Sleep's accuracy.
// It returns false if ctx is done first.
func Wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
