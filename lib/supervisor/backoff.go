// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"math/rand/v2"
	"time"
)

// Backoff is the reconnect delay policy. The delay starts at Initial,
// doubles after every attempt that did not reach play and is capped at
// Max. Jitter spreads each delay uniformly over ±Jitter of its value so
// workers that failed together do not reconnect together.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  float64
}

// DefaultJitter is the jitter fraction applied when Backoff.Jitter is
// zero.
const DefaultJitter = 0.2

type backoffState struct {
	policy  Backoff
	current time.Duration
	random  func() float64
}

func newBackoff(policy Backoff, random func() float64) *backoffState {
	if policy.Jitter == 0 {
		policy.Jitter = DefaultJitter
	}
	if policy.Max < policy.Initial {
		policy.Max = policy.Initial
	}
	if random == nil {
		random = rand.Float64
	}
	return &backoffState{policy: policy, random: random}
}

// Next returns the delay before the next attempt and advances the
// sequence. A zero Initial always returns zero.
func (b *backoffState) Next() time.Duration {
	if b.policy.Initial <= 0 {
		return 0
	}
	if b.current == 0 {
		b.current = b.policy.Initial
	}
	delay := b.current
	b.current = min(b.current*2, b.policy.Max)

	if b.policy.Jitter > 0 {
		factor := 1 + b.policy.Jitter*(2*b.random()-1)
		delay = time.Duration(float64(delay) * factor)
	}
	return delay
}

// Reset restarts the sequence at Initial.
func (b *backoffState) Reset() {
	b.current = 0
}
