// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errShape = errors.New("unexpected status document shape")

// ParseStatus extracts the online player sample from a server list
// status document. A document without a players object, or whose
// players object has no sample, describes an empty roster. Every other
// structural mismatch is an error.
func ParseStatus(document []byte, exclude Exclusion) (Roster, error) {
	var top map[string]json.RawMessage
	if err := decodeObject(document, &top); err != nil {
		return Roster{}, fmt.Errorf("status document: %w", err)
	}

	rawPlayers, present := top["players"]
	if !present {
		return NewRoster(nil, exclude), nil
	}
	var players map[string]json.RawMessage
	if err := decodeObject(rawPlayers, &players); err != nil {
		return Roster{}, fmt.Errorf("players: %w", err)
	}

	rawSample, present := players["sample"]
	if !present {
		return NewRoster(nil, exclude), nil
	}
	if !isKind(rawSample, '[') {
		return Roster{}, fmt.Errorf("players.sample: %w: not an array", errShape)
	}
	var sample []json.RawMessage
	if err := json.Unmarshal(rawSample, &sample); err != nil {
		return Roster{}, fmt.Errorf("players.sample: %w", err)
	}

	names := make([]string, 0, len(sample))
	for index, rawEntry := range sample {
		var entry map[string]json.RawMessage
		if err := decodeObject(rawEntry, &entry); err != nil {
			return Roster{}, fmt.Errorf("players.sample[%d]: %w", index, err)
		}
		rawName, present := entry["name"]
		if !present || !isKind(rawName, '"') {
			return Roster{}, fmt.Errorf("players.sample[%d].name: %w: missing or not a string", index, errShape)
		}
		var name string
		if err := json.Unmarshal(rawName, &name); err != nil {
			return Roster{}, fmt.Errorf("players.sample[%d].name: %w", index, err)
		}
		names = append(names, name)
	}
	return NewRoster(names, exclude), nil
}

// decodeObject decodes a JSON object into target, rejecting null and
// non-object values that encoding/json would otherwise accept or
// report less clearly.
func decodeObject(data []byte, target *map[string]json.RawMessage) error {
	if !isKind(data, '{') {
		return fmt.Errorf("%w: not an object", errShape)
	}
	return json.Unmarshal(data, target)
}

func isKind(data []byte, first byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == first
}
