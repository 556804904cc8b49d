// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package statefile reads and writes the small on-disk files that carry
// ultimdos state between runs: the known player list, the proxy list
// and the runtime status snapshot.
//
// Lists are plain text, one entry per line. On read, surrounding
// whitespace is trimmed and blank lines are skipped, so hand-edited
// files with CRLF endings or trailing spaces load cleanly. On write,
// every entry is followed by a single '\n'.
//
// Every write is atomic (write to a temporary file in the same
// directory, fsync, rename, fsync the directory) so a crash never
// leaves a truncated players file behind.
//
// Lock takes an advisory lock on the state directory so two keepers
// never rewrite the same files concurrently.
package statefile
