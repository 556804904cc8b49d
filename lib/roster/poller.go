// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/themixrat/ultimdos/lib/mcproto"
	"github.com/themixrat/ultimdos/transport"
)

// Stage names the step of a status poll that failed.
type Stage string

const (
	StageDial      Stage = "dial"
	StageHandshake Stage = "handshake"
	StageRead      Stage = "read"
	StageDecode    Stage = "decode"
)

// PollError reports a failed status poll. The keeper retries the
// poll after its failure delay.
type PollError struct {
	Address string
	Stage   Stage
	Err     error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("polling %s: %s: %v", e.Address, e.Stage, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// Poller queries a server's status endpoint for the online roster.
type Poller struct {
	// Address is the host:port dialed for the poll.
	Address string

	// Host and Port are announced in the handshake. They name the game
	// server, which need not be the status listener being dialed.
	Host string
	Port uint16

	// ProtocolVersion is announced in the handshake.
	ProtocolVersion int32

	// Timeout bounds the whole exchange. Zero means only ctx applies.
	Timeout time.Duration

	// Dialer opens the connection. Nil dials TCP directly.
	Dialer transport.Dialer

	// Exclude filters names out of the returned roster.
	Exclude Exclusion
}

// Poll performs one status exchange: handshake with next state
// status, an empty status request, then one status response whose
// JSON document is parsed by ParseStatus. Every failure is a
// *PollError.
func (p *Poller) Poll(ctx context.Context) (Roster, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	dialer := p.Dialer
	if dialer == nil {
		dialer = &transport.TCPDialer{}
	}
	connection, err := dialer.DialContext(ctx, p.Address)
	if err != nil {
		return Roster{}, p.fail(StageDial, err)
	}
	defer connection.Close()

	if deadline, ok := ctx.Deadline(); ok {
		connection.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { connection.Close() })
	defer stop()

	conn := mcproto.NewConn(connection)
	handshake := mcproto.Handshake{
		ProtocolVersion: p.ProtocolVersion,
		Host:            p.Host,
		Port:            p.Port,
		NextState:       mcproto.NextStateStatus,
	}
	if err := conn.WritePacket(handshake.Packet()); err != nil {
		return Roster{}, p.fail(StageHandshake, err)
	}
	if err := conn.WritePacket(mcproto.StatusRequest()); err != nil {
		return Roster{}, p.fail(StageHandshake, err)
	}

	packet, err := conn.ReadPacket()
	if err != nil {
		return Roster{}, p.fail(StageRead, err)
	}
	if packet.ID != mcproto.IDStatusResponse {
		return Roster{}, p.fail(StageRead, fmt.Errorf("unexpected packet 0x%02x, want status response", packet.ID))
	}
	document, err := mcproto.NewDecoder(packet.Data).ReadString()
	if err != nil {
		return Roster{}, p.fail(StageRead, fmt.Errorf("status response: %w", err))
	}

	roster, err := ParseStatus([]byte(document), p.Exclude)
	if err != nil {
		return Roster{}, p.fail(StageDecode, err)
	}
	return roster, nil
}

func (p *Poller) fail(stage Stage, err error) *PollError {
	return &PollError{Address: p.Address, Stage: stage, Err: err}
}
