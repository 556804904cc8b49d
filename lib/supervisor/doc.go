// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package supervisor keeps one persistent worker per player name.
//
// [Supervisor.Spawn] is idempotent: the first call for a name starts a
// worker goroutine, later calls return false while that worker lives.
// A worker loops for as long as its context is alive:
//
//  1. acquire a transport: a random proxy from the pool through SOCKS5,
//     or a direct dial when the pool is empty;
//  2. run one protocol session on it;
//  3. record the outcome and wait before the next attempt.
//
// A proxy that cannot connect is evicted from the pool (subject to the
// pool's floor of one) and the pool file is rewritten outside every
// lock. Failed attempts back off exponentially with jitter; a session
// that reached play resets the backoff. A throttled session has already
// waited out its cool-down and reconnects immediately.
//
// The worker removes its name from the active set only when it exits,
// which happens on context cancellation. [Supervisor.Wait] blocks until
// every worker has exited.
package supervisor
