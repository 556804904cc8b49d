// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package roster models who is online and who has ever been online,
// and computes what the keeper must do when that changes.
//
// A [Roster] is the set of names one status poll observed. It is built
// once by [NewRoster] (or [Poller.Poll]) and never modified. A [Known]
// roster is the cumulative, insertion-ordered union of every Roster
// merged into it; it only grows, and it is what the players file holds.
// Both apply the [Exclusion] set on construction, so an excluded name
// can never reach the supervisor no matter what the server reports or
// what an operator left in the players file.
//
// [Diff] compares two consecutive rosters against the known roster:
//
//	delta := roster.Diff(previous, current, known, firstCycle)
//	for _, name := range delta.Spawns() {
//		supervisor.Spawn(ctx, name)
//	}
//	known.Merge(current)
//
// Diff is pure. Merge is the only mutation and belongs to the single
// control loop that owns the Known value.
package roster
