// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roster

// Delta is the outcome of comparing two consecutive rosters.
type Delta struct {
	// Joined came online since the previous poll. Logged only.
	Joined []string

	// Left went offline since the previous poll. Each one gets a
	// worker holding its slot.
	Left []string

	// Backfill is every known name absent from the first successful
	// poll. It is only populated when firstCycle is set.
	Backfill []string

	// Discovered is every name in the current roster that the known
	// roster has not seen yet. Merging current into known adds
	// exactly these.
	Discovered []string
}

// Diff computes the delta between previous and current. known is
// read, never modified; nil is treated as empty.
func Diff(previous, current Roster, known *Known, firstCycle bool) Delta {
	var delta Delta
	for _, name := range current.order {
		if !previous.Contains(name) {
			delta.Joined = append(delta.Joined, name)
		}
		if !known.Contains(name) {
			delta.Discovered = append(delta.Discovered, name)
		}
	}
	for _, name := range previous.order {
		if !current.Contains(name) {
			delta.Left = append(delta.Left, name)
		}
	}
	if firstCycle && known != nil {
		for _, name := range known.order {
			if !current.Contains(name) {
				delta.Backfill = append(delta.Backfill, name)
			}
		}
	}
	return delta
}

// Spawns returns the names that need a worker: Left followed by
// Backfill, without duplicates.
func (d Delta) Spawns() []string {
	if len(d.Backfill) == 0 {
		return d.Left
	}
	seen := make(map[string]struct{}, len(d.Left)+len(d.Backfill))
	spawns := make([]string, 0, len(d.Left)+len(d.Backfill))
	for _, group := range [][]string{d.Left, d.Backfill} {
		for _, name := range group {
			if _, duplicate := seen[name]; duplicate {
				continue
			}
			seen[name] = struct{}{}
			spawns = append(spawns, name)
		}
	}
	return spawns
}
