// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net"
)

// Dialer opens a stream to the game server at address ("host:port").
type Dialer interface {
	DialContext(ctx context.Context, address string) (net.Conn, error)
}

// DialerFunc adapts an ordinary function to the Dialer interface.
type DialerFunc func(ctx context.Context, address string) (net.Conn, error)

// DialContext calls f(ctx, address).
func (f DialerFunc) DialContext(ctx context.Context, address string) (net.Conn, error) {
	return f(ctx, address)
}

// ProxyConnectError reports that a stream could not be opened through
// a SOCKS5 endpoint. The session never started, so the failure says
// nothing about the game server.
type ProxyConnectError struct {
	// Endpoint is the pool entry that was tried.
	Endpoint string

	// Evicted is set by the caller once it has removed Endpoint from
	// the pool.
	Evicted bool

	Err error
}

func (e *ProxyConnectError) Error() string {
	return fmt.Sprintf("connecting through proxy %s: %v", e.Endpoint, e.Err)
}

func (e *ProxyConnectError) Unwrap() error { return e.Err }
