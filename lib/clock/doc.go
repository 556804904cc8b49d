// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction.
//
// Every delay in ultimdos goes through a Clock: the keeper's poll
// cadence, the supervisor's reconnect backoff, and the session's
// cool-down after a "connection throttled" disconnect. Production code
// uses Real(). Tests use Fake(), which stands still until Advance is
// called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go worker(c)
//	c.WaitForTimers(1)         // worker is now blocked in After or Sleep
//	c.Advance(4 * time.Second) // release it deterministically
//
// WaitForTimers closes the race between a goroutine registering a
// timer and the test advancing the clock. Until reports the delay the
// goroutine asked for, so a test can assert a backoff or cool-down
// value before releasing it with AdvanceToNext.
package clock
