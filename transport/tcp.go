// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

var _ Dialer = (*TCPDialer)(nil)

// TCPDialer connects directly to the game server. Sessions use it when
// the proxy pool is empty; status polls always do.
type TCPDialer struct {
	// Timeout bounds connection establishment. Zero means only the
	// context deadline applies.
	Timeout time.Duration
}

// DialContext opens a TCP connection to address. OS-level keep-alive
// probes are off; sessions detect a dead server through their read
// deadline.
func (d *TCPDialer) DialContext(ctx context.Context, address string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: d.Timeout, KeepAlive: -1}
	connection, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", address, err)
	}
	return connection, nil
}
