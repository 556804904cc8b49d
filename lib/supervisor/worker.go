// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"sync"
	"time"
)

// State is what a worker is doing right now.
type State string

const (
	StateStarting   State = "starting"
	StateConnecting State = "connecting"
	StateLoggingIn  State = "logging-in"
	StatePlaying    State = "playing"
	StateBackoff    State = "backoff"
)

// Outcome is how a worker's last attempt ended.
type Outcome string

const (
	OutcomeConnectFailed Outcome = "connect-failed"
	OutcomeThrottled     Outcome = "throttled"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeRejected      Outcome = "rejected"
	OutcomeError         Outcome = "error"
	OutcomeClosed        Outcome = "closed"
)

// WorkerStatus is a point-in-time copy of a worker's bookkeeping.
type WorkerStatus struct {
	Player       string    `json:"player"`
	State        State     `json:"state"`
	Started      time.Time `json:"started"`
	Attempts     int       `json:"attempts"`
	PlaySessions int       `json:"play_sessions"`
	LastOutcome  Outcome   `json:"last_outcome,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
}

type worker struct {
	player  string
	started time.Time

	mu           sync.Mutex
	state        State
	attempts     int
	playSessions int
	lastOutcome  Outcome
	lastError    string
}

func (w *worker) begin() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attempts++
	w.state = StateConnecting
}

func (w *worker) setState(state State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
}

func (w *worker) reachedPlay() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playSessions++
}

func (w *worker) end(outcome Outcome, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastOutcome = outcome
	w.lastError = ""
	if err != nil {
		w.lastError = err.Error()
	}
}

func (w *worker) status() WorkerStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WorkerStatus{
		Player:       w.player,
		State:        w.state,
		Started:      w.started,
		Attempts:     w.attempts,
		PlaySessions: w.playSessions,
		LastOutcome:  w.lastOutcome,
		LastError:    w.lastError,
	}
}
