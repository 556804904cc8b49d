// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/themixrat/ultimdos/lib/clock"
	"github.com/themixrat/ultimdos/lib/roster"
	"github.com/themixrat/ultimdos/lib/supervisor"
)

// Poller produces the current roster. *roster.Poller is the
// production implementation.
type Poller interface {
	Poll(ctx context.Context) (roster.Roster, error)
}

// Spawner starts slot-holding workers. *supervisor.Supervisor is the
// production implementation.
type Spawner interface {
	Spawn(ctx context.Context, player string) bool
	Len() int
	Snapshot() []supervisor.WorkerStatus
}

// ListSaver persists the known roster. statefile.ListStore is the
// production implementation.
type ListSaver interface {
	Save(entries []string) error
}

// PoolSizer reports the proxy pool size for the status snapshot.
type PoolSizer interface {
	Len() int
}

// Config parameterizes a Keeper.
type Config struct {
	Poller     Poller
	Supervisor Spawner

	// Known is the roster loaded from the players file. The keeper
	// takes ownership of it.
	Known *roster.Known

	// Players persists Known whenever it grows. Nil skips persistence.
	Players ListSaver

	// Pool is reported in the status snapshot. Optional.
	Pool PoolSizer

	// StatusPath receives the CBOR snapshot. Empty disables it.
	StatusPath string

	// Interval is the delay after a successful cycle, FailureDelay
	// after a failed poll.
	Interval     time.Duration
	FailureDelay time.Duration

	// Clock times the cadence. Nil means clock.Real().
	Clock clock.Clock

	// Logger is required.
	Logger *slog.Logger
}

// Keeper is the roster control loop.
type Keeper struct {
	config Config

	previous      roster.Roster
	firstCycle    bool
	cycles        int
	pollFailures  int
	lastPollError string
}

// New creates a keeper. It panics when Poller, Supervisor, Known or
// Logger is missing.
func New(config Config) *Keeper {
	if config.Poller == nil || config.Supervisor == nil || config.Known == nil || config.Logger == nil {
		panic("keeper: Poller, Supervisor, Known and Logger are required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	return &Keeper{config: config, firstCycle: true}
}

// Run executes cycles until ctx is cancelled and then returns nil.
// Poll failures are logged and retried after the failure delay; they
// never end the loop.
func (k *Keeper) Run(ctx context.Context) error {
	for {
		delay := k.config.Interval
		if _, err := k.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			k.config.Logger.Warn("roster poll failed", "error", err, "retry_in", k.config.FailureDelay)
			delay = k.config.FailureDelay
		}

		select {
		case <-ctx.Done():
			return nil
		case <-k.config.Clock.After(delay):
		}
	}
}

// Cycle runs one poll, diff, spawn and persist pass. It returns the
// computed delta, or the poll error when the poll failed, in which
// case nothing else happens and the first-cycle backfill stays pending.
func (k *Keeper) Cycle(ctx context.Context) (roster.Delta, error) {
	current, err := k.config.Poller.Poll(ctx)
	if err != nil {
		k.pollFailures++
		k.lastPollError = err.Error()
		k.writeStatus()
		return roster.Delta{}, err
	}
	k.lastPollError = ""

	delta := roster.Diff(k.previous, current, k.config.Known, k.firstCycle)
	for _, name := range delta.Joined {
		k.config.Logger.Debug("player joined", "player", name)
	}
	for _, name := range delta.Left {
		k.config.Logger.Info("player left, holding slot", "player", name)
	}
	if k.firstCycle && len(delta.Backfill) > 0 {
		k.config.Logger.Info("backfilling offline known players", "count", len(delta.Backfill))
	}

	spawned := 0
	for _, name := range delta.Spawns() {
		if k.config.Supervisor.Spawn(ctx, name) {
			spawned++
		}
	}

	if added := k.config.Known.Merge(current); len(added) > 0 {
		k.config.Logger.Info("discovered players", "players", added, "known", k.config.Known.Len())
		if k.config.Players != nil {
			if err := k.config.Players.Save(k.config.Known.Names()); err != nil {
				k.config.Logger.Error("saving players file failed", "error", err)
			}
		}
	}

	k.previous = current
	k.firstCycle = false
	k.cycles++
	k.config.Logger.Debug("cycle complete",
		"online", current.Len(),
		"spawned", spawned,
		"active", k.config.Supervisor.Len(),
	)
	k.writeStatus()
	return delta, nil
}

func (k *Keeper) writeStatus() {
	if k.config.StatusPath == "" {
		return
	}
	status := Status{
		Time:          k.config.Clock.Now().UTC(),
		Cycles:        k.cycles,
		PollFailures:  k.pollFailures,
		LastPollError: k.lastPollError,
		Online:        k.previous.Names(),
		Known:         k.config.Known.Len(),
		Active:        k.config.Supervisor.Len(),
		Workers:       k.config.Supervisor.Snapshot(),
	}
	if k.config.Pool != nil {
		status.Proxies = k.config.Pool.Len()
	}
	if err := WriteStatus(k.config.StatusPath, status); err != nil {
		k.config.Logger.Error("writing status snapshot failed", "path", k.config.StatusPath, "error", err)
	}
}
