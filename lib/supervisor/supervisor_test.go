// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"context"
	"errors"
	"net"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/themixrat/ultimdos/lib/clock"
	"github.com/themixrat/ultimdos/lib/logging"
	"github.com/themixrat/ultimdos/lib/mcproto"
	"github.com/themixrat/ultimdos/lib/proxypool"
	"github.com/themixrat/ultimdos/lib/session"
	"github.com/themixrat/ultimdos/lib/testutil"
	"github.com/themixrat/ultimdos/transport"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// pipeDialer hands out the client end of a fresh pipe per dial and
// closes the server end when the test completes.
func pipeDialer(t *testing.T) transport.Dialer {
	var mu sync.Mutex
	var servers []net.Conn
	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		for _, server := range servers {
			server.Close()
		}
	})
	return transport.DialerFunc(func(ctx context.Context, address string) (net.Conn, error) {
		client, server := net.Pipe()
		mu.Lock()
		servers = append(servers, server)
		mu.Unlock()
		return client, nil
	})
}

// holdSession reaches play and holds the slot until cancelled.
func holdSession(started chan<- string) SessionFunc {
	return func(ctx context.Context, connection net.Conn, player string, onPhase func(session.Phase)) (session.Result, error) {
		defer connection.Close()
		onPhase(session.PhaseLoggingIn)
		onPhase(session.PhasePlay)
		if started != nil {
			started <- player
		}
		<-ctx.Done()
		return session.Result{Player: player, Phase: session.PhasePlay}, ctx.Err()
	}
}

func TestSpawnIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan string, 10)
	supervisor := New(Config{
		Address: "game:25565",
		Direct:  pipeDialer(t),
		Session: holdSession(started),
		Logger:  logging.Discard(),
	})

	if !supervisor.Spawn(ctx, "Steve") {
		t.Fatal("first Spawn should start a worker")
	}
	if supervisor.Spawn(ctx, "Steve") {
		t.Fatal("second Spawn for an active player should be discarded")
	}

	var wg sync.WaitGroup
	var accepted atomic.Int32
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if supervisor.Spawn(ctx, "Alex") {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := accepted.Load(); got != 1 {
		t.Fatalf("concurrent Spawn accepted %d times, want 1", got)
	}

	testutil.RequireReceive(t, started, 5*time.Second, "waiting for first session")
	testutil.RequireReceive(t, started, 5*time.Second, "waiting for second session")
	select {
	case player := <-started:
		t.Fatalf("unexpected extra session for %s", player)
	case <-time.After(50 * time.Millisecond):
	}

	if got := supervisor.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if !supervisor.Active("Steve") || !supervisor.Active("Alex") || supervisor.Active("Notch") {
		t.Fatal("Active() disagrees with spawned players")
	}
}

func TestCancelDrainsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan string, 2)
	supervisor := New(Config{
		Direct:  pipeDialer(t),
		Session: holdSession(started),
		Logger:  logging.Discard(),
	})
	supervisor.Spawn(ctx, "Steve")
	supervisor.Spawn(ctx, "Alex")
	testutil.RequireReceive(t, started, 5*time.Second, "waiting for session")
	testutil.RequireReceive(t, started, 5*time.Second, "waiting for session")

	cancel()
	drained := make(chan struct{})
	go func() {
		supervisor.Wait()
		close(drained)
	}()
	testutil.RequireClosed(t, drained, 5*time.Second, "workers did not exit after cancel")

	if supervisor.Len() != 0 || supervisor.Active("Steve") {
		t.Fatal("exited workers still listed as active")
	}
}

func TestMaxSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	supervisor := New(Config{
		Direct:      pipeDialer(t),
		Session:     holdSession(nil),
		MaxSessions: 3,
		Logger:      logging.Discard(),
	})
	for range 3 {
		if !supervisor.Spawn(ctx, testutil.UniqueID("bot")) {
			t.Fatal("Spawn under the cap should succeed")
		}
	}
	if supervisor.Spawn(ctx, testutil.UniqueID("bot")) {
		t.Fatal("Spawn over the cap should be refused")
	}
	if got := supervisor.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
}

func TestProxyFailureEvictsDownToFloor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := clock.Fake(epoch)
	pool := proxypool.New([]string{"10.0.0.1:1080", "10.0.0.2:1080"}, nil)
	attempts := make(chan string, 10)

	var sessions atomic.Int32
	supervisor := New(Config{
		Address: "game:25565",
		Pool:    pool,
		Proxy: func(endpoint string) transport.Dialer {
			return transport.DialerFunc(func(ctx context.Context, address string) (net.Conn, error) {
				attempts <- endpoint
				return nil, &transport.ProxyConnectError{Endpoint: endpoint, Err: errors.New("connection refused")}
			})
		},
		Direct: transport.DialerFunc(func(ctx context.Context, address string) (net.Conn, error) {
			t.Error("direct dial used while the pool is non-empty")
			return nil, errors.New("unexpected")
		}),
		Session: func(ctx context.Context, connection net.Conn, player string, onPhase func(session.Phase)) (session.Result, error) {
			sessions.Add(1)
			return session.Result{}, nil
		},
		Backoff: Backoff{Initial: time.Second, Max: 8 * time.Second},
		Clock:   fake,
		Logger:  logging.Discard(),
	})

	supervisor.Spawn(ctx, "Steve")

	testutil.RequireReceive(t, attempts, 5*time.Second, "waiting for first proxy attempt")
	fake.WaitForTimers(1)
	if got := pool.Len(); got != 1 {
		t.Fatalf("pool size after first failure = %d, want 1", got)
	}
	status := supervisor.Snapshot()[0]
	if status.LastOutcome != OutcomeConnectFailed || status.State != StateBackoff {
		t.Fatalf("status = %+v, want connect-failed in backoff", status)
	}

	if delay, _ := fake.Until(); delay < 800*time.Millisecond || delay > 1200*time.Millisecond {
		t.Fatalf("first backoff = %v, want 1s within jitter", delay)
	}

	remaining := pool.Snapshot()[0]
	fake.AdvanceToNext()
	if got := testutil.RequireReceive(t, attempts, 5*time.Second, "waiting for second proxy attempt"); got != remaining {
		t.Fatalf("second attempt used %s, want the remaining %s", got, remaining)
	}
	fake.WaitForTimers(1)
	if got := pool.Snapshot(); !slices.Equal(got, []string{remaining}) {
		t.Fatalf("pool after failure on last proxy = %v, want [%s]", got, remaining)
	}
	if sessions.Load() != 0 {
		t.Fatal("session ran without a connection")
	}
}

func TestThrottleReconnectsWithoutBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := clock.Fake(epoch)
	calls := make(chan int, 4)
	var count atomic.Int32
	supervisor := New(Config{
		Direct: pipeDialer(t),
		Session: func(ctx context.Context, connection net.Conn, player string, onPhase func(session.Phase)) (session.Result, error) {
			defer connection.Close()
			n := int(count.Add(1))
			calls <- n
			if n == 1 {
				return session.Result{Player: player, Phase: session.PhaseLoggingIn}, session.ErrThrottled
			}
			<-ctx.Done()
			return session.Result{Player: player}, ctx.Err()
		},
		Backoff: Backoff{Initial: time.Minute, Max: time.Hour},
		Clock:   fake,
		Logger:  logging.Discard(),
	})

	supervisor.Spawn(ctx, "Steve")
	testutil.RequireReceive(t, calls, 5*time.Second, "waiting for first session")
	testutil.RequireReceive(t, calls, 5*time.Second, "throttled session should reconnect without advancing the clock")

	status := supervisor.Snapshot()[0]
	if status.Attempts != 2 {
		t.Fatalf("Attempts = %d, want 2", status.Attempts)
	}
	if status.LastOutcome != OutcomeThrottled {
		t.Fatalf("LastOutcome = %s, want throttled", status.LastOutcome)
	}
}

func TestSessionThroughSOCKS5Proxy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logins := make(chan mcproto.LoginStart, 1)
	game := testutil.Serve(t, func(connection net.Conn) {
		conn := mcproto.NewConn(connection)
		if _, err := conn.ReadPacket(); err != nil {
			return
		}
		packet, err := conn.ReadPacket()
		if err != nil {
			return
		}
		start, err := mcproto.ParseLoginStart(packet)
		if err != nil {
			return
		}
		logins <- start
		conn.WritePacket(mcproto.Packet{ID: mcproto.IDLoginSuccess})
		conn.WritePacket(mcproto.Disconnect(session.DuplicateLoginMessage))
	})
	relay := testutil.StartSOCKS5(t)

	fake := clock.Fake(epoch)
	supervisor := New(Config{
		Address: game,
		Pool:    proxypool.New([]string{relay.Address()}, nil),
		Session: SessionRunner(session.Config{
			Host:        "127.0.0.1",
			Port:        25565,
			ReadTimeout: 5 * time.Second,
		}),
		Backoff: Backoff{Initial: time.Second, Max: 30 * time.Second},
		Clock:   fake,
		Logger:  logging.Discard(),
	})

	supervisor.Spawn(ctx, "Notch")
	start := testutil.RequireReceive(t, logins, 5*time.Second, "waiting for login through the relay")
	if start.Name != "Notch" || start.UUID.String() != "b50ad385-829d-3141-a216-7e7d7539ba7f" {
		t.Fatalf("login start = %+v", start)
	}

	fake.WaitForTimers(1)
	status := supervisor.Snapshot()[0]
	if status.PlaySessions != 1 || status.LastOutcome != OutcomeDuplicate || status.State != StateBackoff {
		t.Fatalf("status = %+v, want one play session ended as duplicate, in backoff", status)
	}
	if relay.Connects() != 1 {
		t.Fatalf("relay connects = %d, want 1", relay.Connects())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		result session.Result
		err    error
		want   Outcome
	}{
		{"throttled", session.Result{}, session.ErrThrottled, OutcomeThrottled},
		{"error", session.Result{}, &session.Error{Op: "read packet", Err: errors.New("reset")}, OutcomeError},
		{"duplicate", session.Result{Disconnect: &session.Disconnect{Kind: session.DisconnectDuplicate}}, nil, OutcomeDuplicate},
		{"rejected", session.Result{Disconnect: &session.Disconnect{Kind: session.DisconnectRejected}}, nil, OutcomeRejected},
		{"closed", session.Result{}, nil, OutcomeClosed},
	}
	for _, test := range tests {
		if got := classify(test.result, test.err); got != test.want {
			t.Errorf("%s: classify = %s, want %s", test.name, got, test.want)
		}
	}
}
