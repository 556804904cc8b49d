// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session runs one client connection through the login
// sequence and then holds it in the play phase for as long as the
// server keeps it.
//
// A session moves Handshaking → LoggingIn → Play and ends Closed. On
// entry it sends a login handshake and a login-start packet carrying
// the player name and its offline UUID. While logging in it honours
// set-compression and waits for login-success. In play it answers
// keep-alives and otherwise ignores the world: no chunk, entity or chat
// packet is interpreted.
//
// Two keep-alive identifier pairs are answered at once (0x23 → 0x12
// and 0x03 → 0x03) and a packet arriving under the login-success
// identifier during play is echoed back empty. Both behaviours keep
// sessions alive on proxies and server forks that disagree about
// packet numbering.
//
// A disconnect is classified by its exact JSON text:
//
//   - the throttle message pauses for the configured cool-down on the
//     injected clock and then returns [ErrThrottled];
//   - the duplicate-login message and every other message end the
//     session cleanly, reported in [Result].Disconnect.
//
// Every read carries a deadline; a read or write failure is returned
// as a *[Error] naming the phase and operation. Run owns the
// connection and closes it before returning, and cancelling the
// context closes it early.
package session
