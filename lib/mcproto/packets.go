// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcproto

import (
	"fmt"

	"github.com/google/uuid"
)

// ProtocolVersion is the protocol number ultimdos announces in every
// handshake (Minecraft 1.20.1).
const ProtocolVersion = 763

// Next states requested by a handshake.
const (
	NextStateStatus int32 = 1
	NextStateLogin  int32 = 2
)

// Packet identifiers. Serverbound and clientbound identifiers share a
// number space per connection phase, so several names map to the same
// value.
const (
	// Handshaking, serverbound.
	IDHandshake int32 = 0x00

	// Status.
	IDStatusRequest  int32 = 0x00
	IDStatusResponse int32 = 0x00

	// Login.
	IDLoginStart     int32 = 0x00
	IDDisconnect     int32 = 0x00
	IDLoginSuccess   int32 = 0x02
	IDSetCompression int32 = 0x03

	// Play keep-alive pairs: clientbound request, serverbound response.
	IDKeepAlive            int32 = 0x23
	IDKeepAliveResponse    int32 = 0x12
	IDLegacyKeepAlive      int32 = 0x03
	IDLegacyKeepAliveReply int32 = 0x03
)

// Handshake is the first packet of every connection.
type Handshake struct {
	ProtocolVersion int32
	Host            string
	Port            uint16
	NextState       int32
}

// Packet encodes the handshake.
func (h Handshake) Packet() Packet {
	var encoder Encoder
	encoder.WriteVarInt(h.ProtocolVersion)
	encoder.WriteString(h.Host)
	encoder.WriteUint16(h.Port)
	encoder.WriteVarInt(h.NextState)
	return Packet{ID: IDHandshake, Data: encoder.Bytes()}
}

// ParseHandshake decodes a handshake packet.
func ParseHandshake(packet Packet) (Handshake, error) {
	if packet.ID != IDHandshake {
		return Handshake{}, fmt.Errorf("mcproto: packet 0x%02x is not a handshake", packet.ID)
	}
	decoder := NewDecoder(packet.Data)
	var handshake Handshake
	var err error
	if handshake.ProtocolVersion, err = decoder.ReadVarInt(); err != nil {
		return Handshake{}, fmt.Errorf("handshake protocol version: %w", err)
	}
	if handshake.Host, err = decoder.ReadString(); err != nil {
		return Handshake{}, fmt.Errorf("handshake host: %w", err)
	}
	if handshake.Port, err = decoder.ReadUint16(); err != nil {
		return Handshake{}, fmt.Errorf("handshake port: %w", err)
	}
	if handshake.NextState, err = decoder.ReadVarInt(); err != nil {
		return Handshake{}, fmt.Errorf("handshake next state: %w", err)
	}
	return handshake, nil
}

// StatusRequest is the empty packet that asks for the server list
// status document.
func StatusRequest() Packet {
	return Packet{ID: IDStatusRequest}
}

// StatusResponse wraps a status JSON document. Used by test servers.
func StatusResponse(document string) Packet {
	var encoder Encoder
	encoder.WriteString(document)
	return Packet{ID: IDStatusResponse, Data: encoder.Bytes()}
}

// LoginStart carries the player name followed by the raw 16-byte
// player UUID.
type LoginStart struct {
	Name string
	UUID uuid.UUID
}

// Packet encodes the login-start packet.
func (l LoginStart) Packet() Packet {
	var encoder Encoder
	encoder.WriteString(l.Name)
	encoder.WriteUUID(l.UUID)
	return Packet{ID: IDLoginStart, Data: encoder.Bytes()}
}

// ParseLoginStart decodes a login-start packet.
func ParseLoginStart(packet Packet) (LoginStart, error) {
	if packet.ID != IDLoginStart {
		return LoginStart{}, fmt.Errorf("mcproto: packet 0x%02x is not login start", packet.ID)
	}
	decoder := NewDecoder(packet.Data)
	name, err := decoder.ReadString()
	if err != nil {
		return LoginStart{}, fmt.Errorf("login start name: %w", err)
	}
	id, err := decoder.ReadUUID()
	if err != nil {
		return LoginStart{}, fmt.Errorf("login start uuid: %w", err)
	}
	return LoginStart{Name: name, UUID: id}, nil
}

// Disconnect builds a disconnect packet carrying a JSON chat component.
func Disconnect(reason string) Packet {
	var encoder Encoder
	encoder.WriteString(reason)
	return Packet{ID: IDDisconnect, Data: encoder.Bytes()}
}

// SetCompression builds a set-compression packet.
func SetCompression(threshold int32) Packet {
	var encoder Encoder
	encoder.WriteVarInt(threshold)
	return Packet{ID: IDSetCompression, Data: encoder.Bytes()}
}
