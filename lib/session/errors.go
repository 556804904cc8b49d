// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
)

// ErrThrottled is returned after a throttle disconnect, once the
// cool-down has elapsed.
var ErrThrottled = errors.New("session: connection throttled by server")

// Error is a transport or framing failure inside a session.
type Error struct {
	Phase Phase

	// Op names what the session was doing, e.g. "read packet" or
	// "write keep-alive".
	Op string

	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("session %s: %s: %v", e.Phase, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
