// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the shared CBOR encoding configuration.
//
// ultimdos uses two serialization formats with a clear boundary:
//
//   - JSON for anything that talks to a game server (the status
//     response) and for human-facing output (--show-status).
//   - CBOR for its own on-disk runtime snapshot (status.cbor), which
//     the keeper rewrites after every cycle.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical snapshot always produces identical bytes, so an unchanged
// cycle rewrites an identical file.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types carry `cbor` tags when they are only ever written as CBOR and
// `json` tags when they are also rendered as JSON; fxamacker/cbor reads
// `json` tags as a fallback. Never put both on one field.
package codec
