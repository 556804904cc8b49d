// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for ultimdos packages.
//
// [RequireReceive] and [RequireClosed] bound every channel wait in a
// test with a real-time timeout. Protocol delays themselves run on a
// fake clock (lib/clock); these helpers only stop a broken test from
// hanging.
//
// [Serve] runs a loopback TCP server with one handler goroutine per
// connection, standing in for a game server or status listener.
// [StartSOCKS5] runs a minimal no-auth SOCKS5 relay for transport and
// supervisor tests.
//
// [UniqueID] generates names that do not collide between tests.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
