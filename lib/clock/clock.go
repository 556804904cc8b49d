// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the time operations used by the keeper, the
// supervisor workers, and protocol sessions. Production code injects
// Real(); tests inject Fake() and advance time explicitly, which makes
// the throttle cool-down and reconnect backoff observable without
// sleeping.
type Clock interface {
	// Now returns the current time. Status snapshots and worker
	// start times are stamped with it.
	Now() time.Time

	// After returns a channel that receives the current time after
	// duration d elapses. If d <= 0, the channel receives immediately.
	// Every wait in ultimdos selects on it together with ctx.Done(),
	// so shutdown never waits out a delay.
	After(d time.Duration) <-chan time.Time

	// Sleep pauses the calling goroutine for at least duration d.
	// Only tests use it; production waits go through After.
	Sleep(d time.Duration)
}

// Real returns the wall clock.
func Real() Clock { return wallClock{} }

type wallClock struct{}

var _ Clock = wallClock{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) After(d time.Duration) <-chan time.Time {
	if d <= 0 {
		fired := make(chan time.Time, 1)
		fired <- time.Now()
		return fired
	}
	return time.After(d)
}

func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }
