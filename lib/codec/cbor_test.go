// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

type sampleWorker struct {
	Player   string `json:"player"`
	State    string `json:"state"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

type sampleSnapshot struct {
	Time    time.Time      `json:"time"`
	Online  int            `json:"online"`
	Workers []sampleWorker `json:"workers"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleSnapshot{
		Time:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Online: 2,
		Workers: []sampleWorker{
			{Player: "Steve", State: "play", Attempts: 1},
			{Player: "Alex", State: "backoff", Attempts: 3, Error: "connection reset"},
		},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleSnapshot
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.Time.Equal(original.Time) || decoded.Online != original.Online {
		t.Fatalf("decoded = %+v, want %+v", decoded, original)
	}
	if len(decoded.Workers) != 2 || decoded.Workers[1] != original.Workers[1] {
		t.Fatalf("decoded workers = %+v, want %+v", decoded.Workers, original.Workers)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]int{"online": 3, "known": 10, "proxies": 4}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestDecodeAnyRendersAsJSON(t *testing.T) {
	data, err := Marshal(sampleSnapshot{
		Time:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Online:  1,
		Workers: []sampleWorker{{Player: "Steve", State: "play"}},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var generic any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal into any: %v", err)
	}
	rendered, err := json.Marshal(generic)
	if err != nil {
		t.Fatalf("json.Marshal of decoded snapshot: %v", err)
	}
	for _, want := range []string{`"player":"Steve"`, `"time":"2026-03-01T12:00:00Z"`} {
		if !strings.Contains(string(rendered), want) {
			t.Errorf("rendered JSON %s does not contain %s", rendered, want)
		}
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var snapshot sampleSnapshot
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &snapshot); err == nil {
		t.Fatal("Unmarshal should reject invalid CBOR")
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"state": "play"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"state"`) || !strings.Contains(notation, `"play"`) {
		t.Fatalf("notation %q missing fields", notation)
	}
}
