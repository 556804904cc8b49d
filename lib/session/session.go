// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/themixrat/ultimdos/lib/clock"
	"github.com/themixrat/ultimdos/lib/mcproto"
)

// Phase is the protocol phase of a session.
type Phase int

const (
	PhaseHandshaking Phase = iota
	PhaseLoggingIn
	PhasePlay
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseHandshaking:
		return "handshaking"
	case PhaseLoggingIn:
		return "logging-in"
	case PhasePlay:
		return "play"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// keepAliveLength is the size of a keep-alive identifier.
const keepAliveLength = 8

// keepAliveReplies maps inbound keep-alive identifiers to the
// identifier the echo is sent under.
var keepAliveReplies = map[int32]int32{
	mcproto.IDKeepAlive:       mcproto.IDKeepAliveResponse,
	mcproto.IDLegacyKeepAlive: mcproto.IDLegacyKeepAliveReply,
}

// Config parameterizes a session.
type Config struct {
	// Host and Port are announced in the login handshake.
	Host string
	Port uint16

	// ProtocolVersion is announced in the handshake. Zero means
	// mcproto.ProtocolVersion.
	ProtocolVersion int32

	// ReadTimeout bounds every packet read. Zero disables the
	// deadline.
	ReadTimeout time.Duration

	// ThrottleCooldown is waited after a throttle disconnect.
	ThrottleCooldown time.Duration

	// Clock times the throttle cool-down. Nil means clock.Real().
	Clock clock.Clock

	// Logger receives per-session events. Nil discards them.
	Logger *slog.Logger

	// OnPhase, when set, is called on every phase transition.
	OnPhase func(Phase)
}

// Result summarizes a finished session.
type Result struct {
	Player string

	// Phase is the last phase reached before the session closed.
	Phase Phase

	// Compression is the negotiated threshold, or
	// mcproto.CompressionDisabled.
	Compression int

	// KeepAlives counts answered keep-alives.
	KeepAlives int

	// Disconnect is set when the server ended the session with a
	// disconnect packet.
	Disconnect *Disconnect
}

// ReachedPlay reports whether the session completed login.
func (r Result) ReachedPlay() bool {
	return r.Phase == PhasePlay
}

type session struct {
	ctx        context.Context
	connection net.Conn
	conn       *mcproto.Conn
	config     Config
	logger     *slog.Logger
	result     Result
}

// Run logs player in over connection and services it until the server
// disconnects, an I/O error occurs or ctx is cancelled. Run closes
// connection before returning.
//
// A nil error means the server ended the session with a non-throttle
// disconnect (see Result.Disconnect). ErrThrottled follows a throttle
// disconnect and its cool-down. A cancelled ctx returns ctx.Err().
// Everything else is a *Error.
func Run(ctx context.Context, connection net.Conn, player string, config Config) (Result, error) {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.ProtocolVersion == 0 {
		config.ProtocolVersion = mcproto.ProtocolVersion
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &session{
		ctx:        ctx,
		connection: connection,
		conn:       mcproto.NewConn(connection),
		config:     config,
		logger:     logger.With("player", player),
		result: Result{
			Player:      player,
			Phase:       PhaseHandshaking,
			Compression: mcproto.CompressionDisabled,
		},
	}

	stop := context.AfterFunc(ctx, func() { connection.Close() })
	err := s.run()
	stop()
	connection.Close()

	if ctxErr := ctx.Err(); ctxErr != nil && err != nil && !errors.Is(err, ErrThrottled) {
		err = ctxErr
	}
	if err == ErrThrottled {
		// The cool-down runs after the connection is released.
		err = s.cooldown()
	}
	return s.result, err
}

func (s *session) run() error {
	if err := s.login(); err != nil {
		return err
	}
	for {
		if s.config.ReadTimeout > 0 {
			s.connection.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}
		packet, err := s.conn.ReadPacket()
		if err != nil {
			return s.fail("read packet", err)
		}

		var done bool
		switch s.result.Phase {
		case PhaseLoggingIn:
			done, err = s.handleLogin(packet)
		case PhasePlay:
			done, err = s.handlePlay(packet)
		}
		if err != nil || done {
			return err
		}
	}
}

func (s *session) login() error {
	handshake := mcproto.Handshake{
		ProtocolVersion: s.config.ProtocolVersion,
		Host:            s.config.Host,
		Port:            s.config.Port,
		NextState:       mcproto.NextStateLogin,
	}
	if err := s.conn.WritePacket(handshake.Packet()); err != nil {
		return s.fail("write handshake", err)
	}

	s.transition(PhaseLoggingIn)
	start := mcproto.LoginStart{
		Name: s.result.Player,
		UUID: mcproto.OfflineUUID(s.result.Player),
	}
	if err := s.conn.WritePacket(start.Packet()); err != nil {
		return s.fail("write login start", err)
	}
	return nil
}

func (s *session) handleLogin(packet mcproto.Packet) (bool, error) {
	switch packet.ID {
	case mcproto.IDSetCompression:
		threshold, err := mcproto.NewDecoder(packet.Data).ReadVarInt()
		if err != nil {
			return false, s.fail("read set-compression", err)
		}
		s.conn.SetCompression(int(threshold))
		s.result.Compression, _ = s.conn.Compression()
		s.logger.Debug("compression negotiated", "threshold", threshold)
		return false, nil

	case mcproto.IDLoginSuccess:
		s.transition(PhasePlay)
		s.logger.Info("session reached play")
		return false, nil

	case mcproto.IDDisconnect:
		return s.handleDisconnect(packet)
	}
	return false, nil
}

func (s *session) handlePlay(packet mcproto.Packet) (bool, error) {
	if reply, isKeepAlive := keepAliveReplies[packet.ID]; isKeepAlive {
		payload, err := mcproto.NewDecoder(packet.Data).ReadBytes(keepAliveLength)
		if err != nil {
			return false, s.fail("read keep-alive", err)
		}
		if err := s.conn.WritePacket(mcproto.Packet{ID: reply, Data: payload}); err != nil {
			return false, s.fail("write keep-alive", err)
		}
		s.result.KeepAlives++
		s.logger.Debug("keep-alive answered", "id", packet.ID, "reply", reply)
		return false, nil
	}

	switch packet.ID {
	case mcproto.IDLoginSuccess:
		if err := s.conn.WritePacket(mcproto.Packet{ID: mcproto.IDLoginSuccess}); err != nil {
			return false, s.fail("write echo", err)
		}
		return false, nil

	case mcproto.IDDisconnect:
		return s.handleDisconnect(packet)
	}
	return false, nil
}

// handleDisconnect classifies a disconnect packet. A payload that is
// not a readable string is not a disconnect and is skipped.
func (s *session) handleDisconnect(packet mcproto.Packet) (bool, error) {
	message, err := mcproto.NewDecoder(packet.Data).ReadString()
	if err != nil {
		return false, nil
	}

	disconnect := &Disconnect{
		Kind:    Classify(message),
		Message: message,
		Phase:   s.result.Phase,
	}
	s.result.Disconnect = disconnect
	s.logger.Info("disconnected by server", "kind", disconnect.Kind.String(), "phase", disconnect.Phase.String(), "message", message)

	if disconnect.Kind == DisconnectThrottled {
		return true, ErrThrottled
	}
	return true, nil
}

// cooldown waits out a throttle disconnect on the injected clock.
func (s *session) cooldown() error {
	select {
	case <-s.config.Clock.After(s.config.ThrottleCooldown):
		return ErrThrottled
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

func (s *session) transition(phase Phase) {
	s.result.Phase = phase
	if s.config.OnPhase != nil {
		s.config.OnPhase(phase)
	}
}

func (s *session) fail(op string, err error) *Error {
	return &Error{Phase: s.result.Phase, Op: op, Err: err}
}
