// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"net"
	"sync"
	"testing"
)

// Serve listens on a loopback port and runs handler on its own
// goroutine for every accepted connection. The connection is closed
// when handler returns. Listener and in-flight handlers are stopped
// when the test completes. Returns the listener's host:port.
func Serve(t *testing.T, handler func(net.Conn)) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}

	var (
		mu      sync.Mutex
		open    = make(map[net.Conn]struct{})
		closed  bool
		running sync.WaitGroup
	)
	go func() {
		for {
			connection, err := listener.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			if closed {
				mu.Unlock()
				connection.Close()
				return
			}
			open[connection] = struct{}{}
			running.Add(1)
			mu.Unlock()

			go func() {
				defer running.Done()
				defer func() {
					mu.Lock()
					delete(open, connection)
					mu.Unlock()
					connection.Close()
				}()
				handler(connection)
			}()
		}
	}()

	t.Cleanup(func() {
		listener.Close()
		mu.Lock()
		closed = true
		for connection := range open {
			connection.Close()
		}
		mu.Unlock()
		running.Wait()
	})
	return listener.Addr().String()
}
