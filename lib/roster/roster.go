// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import "slices"

// Exclusion is a fixed set of names that are never treated as real
// players. The zero value excludes nothing.
type Exclusion struct {
	names map[string]struct{}
}

// NewExclusion builds an exclusion set. Matching is exact.
func NewExclusion(names []string) Exclusion {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return Exclusion{names: set}
}

// Excludes reports whether name must be ignored.
func (e Exclusion) Excludes(name string) bool {
	_, excluded := e.names[name]
	return excluded
}

// Roster is the set of player names observed online at one poll.
// The zero value is an empty roster.
type Roster struct {
	order []string
	set   map[string]struct{}
}

// NewRoster builds a roster from names in server order, dropping
// excluded names, empty names and duplicates.
func NewRoster(names []string, exclude Exclusion) Roster {
	roster := Roster{set: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" || exclude.Excludes(name) {
			continue
		}
		if _, duplicate := roster.set[name]; duplicate {
			continue
		}
		roster.set[name] = struct{}{}
		roster.order = append(roster.order, name)
	}
	return roster
}

// Contains reports whether name is in the roster.
func (r Roster) Contains(name string) bool {
	_, present := r.set[name]
	return present
}

// Len returns the number of names.
func (r Roster) Len() int {
	return len(r.order)
}

// Names returns a copy of the names in the order the server listed
// them.
func (r Roster) Names() []string {
	return slices.Clone(r.order)
}

// Known is the cumulative roster of every name ever observed online.
// It is not safe for concurrent use; the keeper's control loop owns it.
type Known struct {
	order []string
	set   map[string]struct{}
}

// NewKnown seeds a known roster, typically from the players file.
// Excluded names, empty names and duplicates are dropped.
func NewKnown(names []string, exclude Exclusion) *Known {
	known := &Known{set: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" || exclude.Excludes(name) {
			continue
		}
		known.add(name)
	}
	return known
}

func (k *Known) add(name string) bool {
	if _, present := k.set[name]; present {
		return false
	}
	k.set[name] = struct{}{}
	k.order = append(k.order, name)
	return true
}

// Contains reports whether name has ever been observed. A nil Known
// contains nothing.
func (k *Known) Contains(name string) bool {
	if k == nil {
		return false
	}
	_, present := k.set[name]
	return present
}

// Len returns the number of known names.
func (k *Known) Len() int {
	return len(k.order)
}

// Names returns a copy of the known names in first-seen order.
func (k *Known) Names() []string {
	return slices.Clone(k.order)
}

// Merge adds every name in current that is not yet known and returns
// the added names in roster order. Existing entries keep their
// position.
func (k *Known) Merge(current Roster) []string {
	var added []string
	for _, name := range current.order {
		if k.add(name) {
			added = append(added, name)
		}
	}
	return added
}
