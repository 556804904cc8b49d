// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/themixrat/ultimdos/lib/clock"
	"github.com/themixrat/ultimdos/lib/netutil"
	"github.com/themixrat/ultimdos/lib/proxypool"
	"github.com/themixrat/ultimdos/lib/session"
	"github.com/themixrat/ultimdos/transport"
)

// SessionFunc runs one protocol session on an established connection
// and must close it before returning. onPhase is called on every
// phase transition. session.Run adapted by SessionRunner is the
// production implementation.
type SessionFunc func(ctx context.Context, connection net.Conn, player string, onPhase func(session.Phase)) (session.Result, error)

// SessionRunner returns a SessionFunc that calls session.Run with
// config.
func SessionRunner(config session.Config) SessionFunc {
	return func(ctx context.Context, connection net.Conn, player string, onPhase func(session.Phase)) (session.Result, error) {
		perSession := config
		perSession.OnPhase = onPhase
		return session.Run(ctx, connection, player, perSession)
	}
}

// Config parameterizes a Supervisor.
type Config struct {
	// Address is the game server host:port every worker connects to.
	Address string

	// Pool supplies proxy endpoints. Nil or empty means direct dials.
	Pool *proxypool.Pool

	// Direct dials the game server when the pool is empty. Nil means
	// a plain TCP dialer.
	Direct transport.Dialer

	// Proxy builds the dialer for one pool endpoint. Nil means
	// transport.SOCKS5Dialer with no timeout.
	Proxy func(endpoint string) transport.Dialer

	// Session runs one session. Required.
	Session SessionFunc

	// Backoff is the reconnect delay policy.
	Backoff Backoff

	// MaxSessions caps concurrent workers. Zero is unbounded.
	MaxSessions int

	// Clock times reconnect delays. Nil means clock.Real().
	Clock clock.Clock

	// Logger is required.
	Logger *slog.Logger
}

// Supervisor owns the set of active workers.
type Supervisor struct {
	config Config
	random func() float64

	mu      sync.Mutex
	workers map[string]*worker

	running sync.WaitGroup
}

// New creates a supervisor. It panics if config.Session or
// config.Logger is nil.
func New(config Config) *Supervisor {
	if config.Session == nil {
		panic("supervisor: Config.Session is required")
	}
	if config.Logger == nil {
		panic("supervisor: Config.Logger is required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Direct == nil {
		config.Direct = &transport.TCPDialer{}
	}
	if config.Proxy == nil {
		config.Proxy = func(endpoint string) transport.Dialer {
			return &transport.SOCKS5Dialer{Endpoint: endpoint}
		}
	}
	return &Supervisor{
		config:  config,
		workers: make(map[string]*worker),
	}
}

// Spawn starts a worker for player unless one is already running or
// the session cap is reached. Returns true when a worker was started.
// The worker runs until ctx is cancelled.
func (s *Supervisor) Spawn(ctx context.Context, player string) bool {
	s.mu.Lock()
	if _, active := s.workers[player]; active {
		s.mu.Unlock()
		return false
	}
	if s.config.MaxSessions > 0 && len(s.workers) >= s.config.MaxSessions {
		s.mu.Unlock()
		s.config.Logger.Warn("session cap reached, not spawning", "player", player, "max_sessions", s.config.MaxSessions)
		return false
	}
	w := &worker{player: player, state: StateStarting, started: s.config.Clock.Now()}
	s.workers[player] = w
	s.running.Add(1)
	s.mu.Unlock()

	s.config.Logger.Info("spawned worker", "player", player)
	go s.run(ctx, w)
	return true
}

// Active reports whether player has a running worker.
func (s *Supervisor) Active(player string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, active := s.workers[player]
	return active
}

// Len returns the number of running workers.
func (s *Supervisor) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// Snapshot returns the status of every running worker, sorted by
// player name.
func (s *Supervisor) Snapshot() []WorkerStatus {
	s.mu.Lock()
	workers := make([]*worker, 0, len(s.workers))
	for _, w := range s.workers {
		workers = append(workers, w)
	}
	s.mu.Unlock()

	statuses := make([]WorkerStatus, 0, len(workers))
	for _, w := range workers {
		statuses = append(statuses, w.status())
	}
	slices.SortFunc(statuses, func(a, b WorkerStatus) int {
		return strings.Compare(a.Player, b.Player)
	})
	return statuses
}

// Wait blocks until every worker has exited.
func (s *Supervisor) Wait() {
	s.running.Wait()
}

func (s *Supervisor) run(ctx context.Context, w *worker) {
	defer s.running.Done()
	defer func() {
		s.mu.Lock()
		delete(s.workers, w.player)
		s.mu.Unlock()
		s.config.Logger.Info("worker stopped", "player", w.player)
	}()

	logger := s.config.Logger.With("player", w.player)
	backoff := newBackoff(s.config.Backoff, s.random)

	for ctx.Err() == nil {
		w.begin()
		connection, endpoint, err := s.acquire(ctx, logger)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.end(OutcomeConnectFailed, err)
			logger.Warn("connect failed", "proxy", endpoint, "error", err)
			if !s.wait(ctx, w, backoff.Next()) {
				return
			}
			continue
		}

		w.setState(StateLoggingIn)
		result, err := s.config.Session(ctx, connection, w.player, func(phase session.Phase) {
			if phase == session.PhasePlay {
				w.setState(StatePlaying)
			}
		})
		if ctx.Err() != nil {
			return
		}
		if result.ReachedPlay() {
			backoff.Reset()
			w.reachedPlay()
		}

		outcome := classify(result, err)
		w.end(outcome, err)
		switch {
		case outcome == OutcomeThrottled:
			logger.Info("session throttled, reconnecting after cool-down", "proxy", endpoint)
			continue
		case err != nil && netutil.IsExpectedCloseError(err):
			logger.Info("session closed by peer", "proxy", endpoint, "error", err)
		case err != nil:
			logger.Warn("session failed", "proxy", endpoint, "error", err)
		default:
			message := ""
			if result.Disconnect != nil {
				message = result.Disconnect.Message
			}
			logger.Info("session ended", "outcome", string(outcome), "proxy", endpoint, "message", message)
		}

		if !s.wait(ctx, w, backoff.Next()) {
			return
		}
	}
}

// acquire opens a connection to the game server, through a random
// pool proxy when one is available.
func (s *Supervisor) acquire(ctx context.Context, logger *slog.Logger) (net.Conn, string, error) {
	var endpoint string
	var ok bool
	if s.config.Pool != nil {
		endpoint, ok = s.config.Pool.Pick()
	}
	if !ok {
		connection, err := s.config.Direct.DialContext(ctx, s.config.Address)
		return connection, "", err
	}

	connection, err := s.config.Proxy(endpoint).DialContext(ctx, s.config.Address)
	if err == nil {
		return connection, endpoint, nil
	}
	if ctx.Err() != nil {
		return nil, endpoint, ctx.Err()
	}

	var proxyErr *transport.ProxyConnectError
	if !errors.As(err, &proxyErr) {
		proxyErr = &transport.ProxyConnectError{Endpoint: endpoint, Err: err}
	}
	if s.config.Pool.Evict(endpoint) {
		proxyErr.Evicted = true
		logger.Warn("evicted proxy", "proxy", endpoint, "remaining", s.config.Pool.Len())
		if persistErr := s.config.Pool.Persist(); persistErr != nil {
			logger.Error("saving proxy pool failed", "error", persistErr)
		}
	}
	return nil, endpoint, proxyErr
}

// wait sleeps for delay on the injected clock. Returns false when ctx
// was cancelled first.
func (s *Supervisor) wait(ctx context.Context, w *worker, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}
	w.setState(StateBackoff)
	select {
	case <-s.config.Clock.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

func classify(result session.Result, err error) Outcome {
	switch {
	case errors.Is(err, session.ErrThrottled):
		return OutcomeThrottled
	case err != nil:
		return OutcomeError
	case result.Disconnect != nil && result.Disconnect.Kind == session.DisconnectDuplicate:
		return OutcomeDuplicate
	case result.Disconnect != nil:
		return OutcomeRejected
	default:
		return OutcomeClosed
	}
}
