// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcproto implements the subset of the Minecraft Java Edition
// wire protocol (version 763) that ultimdos speaks: VarInt and string
// encoding, packet framing with optional zlib compression, the
// handshake, status and login-start packets, and the offline-mode
// player UUID.
//
// A [Conn] wraps any byte stream (direct TCP or a SOCKS5 tunnel) and
// reads or writes whole [Packet] values. Before compression is
// negotiated a frame is
//
//	VarInt(length) VarInt(id) data
//
// and after [Conn.SetCompression] with a non-negative threshold it is
//
//	VarInt(length) VarInt(uncompressedLength) zlib(VarInt(id) data)
//
// where an uncompressed length of zero marks a payload sent raw because
// it was below the threshold. Packet payloads are built with [Encoder]
// and parsed with [Decoder]; both use big-endian fixed-width integers
// and length-prefixed UTF-8 strings.
//
// Conn does no locking. Each connection is owned by exactly one
// goroutine.
package mcproto
