// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for ultimdos.
//
// Configuration comes from at most one file, named by the --config flag
// (via [LoadFile]) or the ULTIMDOS_CONFIG environment variable (via
// [Load]). Files ending in .json or .jsonc are read as JSON with
// comments and trailing commas allowed; everything else is YAML. With
// no file, [Default] supplies every value except the three the operator
// must always provide: the status address, the game host and the game
// port. Command-line flags are applied on top by the binary.
//
// Path fields are expanded after loading: ${HOME}, ${ULTIMDOS_STATE}
// (the state directory) and ${VAR:-default} patterns. Relative state
// file names resolve against StateDir via [Config.Path].
//
// Key exports:
//
//   - [Config] -- master struct with Poll, Session and Dial sections
//   - [Default] -- a Config carrying every default
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] and [Config.Missing] -- startup checks
//
// This package depends on no other ultimdos packages.
package config
