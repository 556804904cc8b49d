// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"
)

func TestPacedNilLimiterIsPassthrough(t *testing.T) {
	base := &TCPDialer{}
	if got := Paced(base, nil); got != Dialer(base) {
		t.Fatal("Paced with nil limiter should return the dialer unchanged")
	}
	if NewLimiter(0, 5) != nil {
		t.Fatal("NewLimiter(0, ...) should disable pacing")
	}
}

func TestPacedWaitsForToken(t *testing.T) {
	var dials atomic.Int32
	base := DialerFunc(func(context.Context, string) (net.Conn, error) {
		dials.Add(1)
		client, server := net.Pipe()
		server.Close()
		return client, nil
	})

	// One token, refilled once an hour: the second dial must wait and
	// give up when its context expires.
	dialer := Paced(base, NewLimiter(1.0/3600, 1))

	connection, err := dialer.DialContext(context.Background(), "mc.example.net:25565")
	if err != nil {
		t.Fatalf("first dial: %v", err)
	}
	connection.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := dialer.DialContext(ctx, "mc.example.net:25565"); err == nil {
		t.Fatal("second dial should fail waiting for a token")
	}
	if got := dials.Load(); got != 1 {
		t.Fatalf("underlying dials = %d, want 1", got)
	}
}
