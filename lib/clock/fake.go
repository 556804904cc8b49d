// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"container/heap"
	"sync"
	"time"
)

// FakeClock is a deterministic Clock for tests. Time moves only when
// Advance or AdvanceToNext is called; After and Sleep block until the
// clock passes their deadline. It is safe for concurrent use.
type FakeClock struct {
	mu         sync.Mutex
	current    time.Time
	waiters    waiterQueue
	sequence   uint64
	registered *sync.Cond
}

// Fake returns a FakeClock standing at initial.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{current: initial}
	clock.registered = sync.NewCond(&clock.mu)
	return clock
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After registers a waiter d from now. Non-positive durations fire
// immediately and register nothing.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	fire := make(chan time.Time, 1)
	if d <= 0 {
		fire <- c.current
		return fire
	}
	c.sequence++
	heap.Push(&c.waiters, &waiter{
		deadline: c.current.Add(d),
		sequence: c.sequence,
		fire:     fire,
	})
	c.registered.Broadcast()
	return fire
}

// Sleep blocks until the clock is advanced by at least d.
func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-c.After(d)
}

// Advance moves the clock forward by d and fires every waiter due at
// or before the new time. Waiters fire in deadline order, ties in
// registration order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	now := c.current
	var due []*waiter
	for c.waiters.Len() > 0 && !c.waiters[0].deadline.After(now) {
		due = append(due, heap.Pop(&c.waiters).(*waiter))
	}
	c.mu.Unlock()

	for _, w := range due {
		w.fire <- now
	}
}

// Until returns how far the clock must advance to fire the earliest
// pending waiter, and false when nothing is pending. Tests use it to
// assert which delay a goroutine chose.
func (c *FakeClock) Until() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiters.Len() == 0 {
		return 0, false
	}
	return c.waiters[0].deadline.Sub(c.current), true
}

// AdvanceToNext advances exactly to the earliest pending deadline and
// returns the distance moved. It returns zero when nothing is pending.
func (c *FakeClock) AdvanceToNext() time.Duration {
	d, ok := c.Until()
	if !ok {
		return 0
	}
	c.Advance(d)
	return d
}

// WaitForTimers blocks until at least n waiters are pending. It closes
// the race between a goroutine calling After and the test advancing.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.waiters.Len() < n {
		c.registered.Wait()
	}
}

// PendingCount returns the number of unfired waiters.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiters.Len()
}

type waiter struct {
	deadline time.Time
	sequence uint64
	fire     chan time.Time
}

// waiterQueue is a min-heap on (deadline, sequence).
type waiterQueue []*waiter

func (q waiterQueue) Len() int { return len(q) }

func (q waiterQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].sequence < q[j].sequence
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q waiterQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *waiterQueue) Push(x any) { *q = append(*q, x.(*waiter)) }

func (q *waiterQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return last
}
