// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keeper

import (
	"fmt"
	"os"
	"time"

	"github.com/themixrat/ultimdos/lib/codec"
	"github.com/themixrat/ultimdos/lib/statefile"
	"github.com/themixrat/ultimdos/lib/supervisor"
)

// Status is the runtime snapshot written after every cycle. It is
// stored as CBOR and rendered as JSON by --show-status, hence the json
// tags.
type Status struct {
	Time          time.Time                 `json:"time"`
	Cycles        int                       `json:"cycles"`
	PollFailures  int                       `json:"poll_failures"`
	LastPollError string                    `json:"last_poll_error,omitempty"`
	Online        []string                  `json:"online"`
	Known         int                       `json:"known"`
	Active        int                       `json:"active"`
	Proxies       int                       `json:"proxies"`
	Workers       []supervisor.WorkerStatus `json:"workers"`
}

// WriteStatus atomically replaces path with the CBOR encoding of
// status.
func WriteStatus(path string, status Status) error {
	data, err := codec.Marshal(status)
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	return statefile.WriteFile(path, data)
}

// ReadStatus decodes a snapshot written by WriteStatus.
func ReadStatus(path string) (Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Status{}, err
	}
	var status Status
	if err := codec.Unmarshal(data, &status); err != nil {
		return Status{}, fmt.Errorf("decoding status %s: %w", path, err)
	}
	return status, nil
}
