// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"testing"
	"time"
)

func fixedRandom(value float64) func() float64 {
	return func() float64 { return value }
}

func TestBackoffDoublesToCap(t *testing.T) {
	// random 0.5 makes the jitter factor exactly 1.
	backoff := newBackoff(Backoff{Initial: 500 * time.Millisecond, Max: 4 * time.Second}, fixedRandom(0.5))

	want := []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
		4 * time.Second,
	}
	for i, expected := range want {
		if got := backoff.Next(); got != expected {
			t.Fatalf("Next() #%d = %v, want %v", i, got, expected)
		}
	}

	backoff.Reset()
	if got := backoff.Next(); got != 500*time.Millisecond {
		t.Fatalf("Next() after Reset = %v, want 500ms", got)
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	policy := Backoff{Initial: time.Second, Max: time.Second}

	low := newBackoff(policy, fixedRandom(0)).Next()
	if low != 800*time.Millisecond {
		t.Fatalf("lowest jittered delay = %v, want 800ms", low)
	}
	high := newBackoff(policy, fixedRandom(1)).Next()
	if high != 1200*time.Millisecond {
		t.Fatalf("highest jittered delay = %v, want 1.2s", high)
	}
}

func TestBackoffZeroInitialIsImmediate(t *testing.T) {
	backoff := newBackoff(Backoff{Max: 30 * time.Second}, nil)
	for range 3 {
		if got := backoff.Next(); got != 0 {
			t.Fatalf("Next() = %v, want 0", got)
		}
	}
}
