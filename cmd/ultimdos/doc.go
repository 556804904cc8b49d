// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Ultimdos keeps every player name a game server has ever listed
// logged in, so a slot stays occupied after its real player leaves.
//
// It polls the server's status endpoint, remembers every name in the
// player sample (all_players.txt), and keeps one offline-mode client
// connected for each known name that is not currently online. Clients
// connect through a random SOCKS5 relay from proxies.txt, or directly
// when that file is empty.
//
// Usage:
//
//	ultimdos --status-address mc.example.net:25565 --host mc.example.net --port 25565
//	ultimdos --config ultimdos.yaml
//	ultimdos --show-status
//
// Missing required values are prompted for on an interactive
// terminal. Both state files must exist unless --create-missing is
// given. A CBOR status snapshot is rewritten after every poll and
// --show-status prints it as JSON.
package main
