// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

var _ Dialer = (*SOCKS5Dialer)(nil)

// SOCKS5Dialer tunnels a TCP stream through one SOCKS5 relay.
type SOCKS5Dialer struct {
	// Endpoint is the relay, as "host:port" or
	// "socks5://[user[:password]@]host:port".
	Endpoint string

	// Timeout bounds the TCP connect to the relay plus the SOCKS5
	// negotiation. Zero means only the context deadline applies.
	Timeout time.Duration
}

// DialContext asks the relay to CONNECT to address. Every failure,
// including a malformed endpoint, is returned as *ProxyConnectError.
func (d *SOCKS5Dialer) DialContext(ctx context.Context, address string) (net.Conn, error) {
	relayAddress, auth, err := ParseEndpoint(d.Endpoint)
	if err != nil {
		return nil, &ProxyConnectError{Endpoint: d.Endpoint, Err: err}
	}

	forward := &net.Dialer{Timeout: d.Timeout}
	dialer, err := proxy.SOCKS5("tcp", relayAddress, auth, forward)
	if err != nil {
		return nil, &ProxyConnectError{Endpoint: d.Endpoint, Err: err}
	}
	contextDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, &ProxyConnectError{Endpoint: d.Endpoint, Err: fmt.Errorf("socks5 dialer does not support contexts")}
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	connection, err := contextDialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &ProxyConnectError{Endpoint: d.Endpoint, Err: err}
	}
	return connection, nil
}

// ParseEndpoint splits a pool entry into the relay's host:port and
// optional credentials.
func ParseEndpoint(endpoint string) (string, *proxy.Auth, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", nil, fmt.Errorf("empty proxy endpoint")
	}

	if !strings.Contains(endpoint, "://") {
		if _, _, err := net.SplitHostPort(endpoint); err != nil {
			return "", nil, fmt.Errorf("proxy endpoint %q: %w", endpoint, err)
		}
		return endpoint, nil, nil
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", nil, fmt.Errorf("proxy endpoint %q: %w", endpoint, err)
	}
	if parsed.Scheme != "socks5" && parsed.Scheme != "socks5h" {
		return "", nil, fmt.Errorf("proxy endpoint %q: unsupported scheme %q (supported: socks5)", endpoint, parsed.Scheme)
	}
	if parsed.Port() == "" {
		return "", nil, fmt.Errorf("proxy endpoint %q: missing port", endpoint)
	}

	var auth *proxy.Auth
	if parsed.User != nil {
		password, _ := parsed.User.Password()
		auth = &proxy.Auth{User: parsed.User.Username(), Password: password}
	}
	return parsed.Host, auth, nil
}
