// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keeper runs the control loop: poll the server roster, diff it
// against the previous poll and the known roster, hand every name that
// needs holding to the supervisor, and persist what changed.
//
// The loop is single-threaded and is the only owner of the known
// roster. It polls again one interval after a successful cycle and one
// failure delay after a failed poll. The very first successful cycle
// also backfills every known name that is offline, so a restart
// re-occupies the whole roster.
//
// After every cycle, successful or not, the keeper writes a CBOR
// [Status] snapshot that `ultimdos --show-status` renders.
package keeper
