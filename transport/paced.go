// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter admitting perSecond dials with the given
// burst, or nil when perSecond is not positive (no pacing).
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Paced returns a Dialer that waits for a token from limiter before
// every dial. A nil limiter returns dialer unchanged.
func Paced(dialer Dialer, limiter *rate.Limiter) Dialer {
	if limiter == nil {
		return dialer
	}
	return DialerFunc(func(ctx context.Context, address string) (net.Conn, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for dial slot: %w", err)
		}
		return dialer.DialContext(ctx, address)
	})
}
