// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which ultimdos build is running.
//
// [GitCommit], [GitDirty] and [BuildTime] are injected with -ldflags
// -X by release builds. When they are empty the values come from the
// vcs.* settings in the embedded build info, and "unknown" when
// neither exists (go test, go run outside a checkout). [Version] is
// bumped by hand.
//
// [Info] is the one-line form used in logs; [Full] is what --version
// prints and adds the announced protocol version.
package version
