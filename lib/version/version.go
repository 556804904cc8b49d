// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/themixrat/ultimdos/lib/mcproto"
)

// Build stamps, set with -ldflags:
//
//	go build -ldflags "-X github.com/themixrat/ultimdos/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/ultimdos
//
// Stamps left empty fall back to the VCS information the go command
// embeds in module builds.
var (
	GitCommit = ""
	GitDirty  = ""
	BuildTime = ""

	// Version is the release version, bumped by hand.
	Version = "0.1.0-dev"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

type stamp struct {
	commit string
	dirty  bool
	time   string
}

func resolve() stamp {
	resolved := stamp{commit: GitCommit, dirty: GitDirty == "true", time: BuildTime}
	if info, ok := readBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if resolved.commit == "" && len(setting.Value) >= 7 {
					resolved.commit = setting.Value[:7]
				}
			case "vcs.modified":
				if GitDirty == "" {
					resolved.dirty = setting.Value == "true"
				}
			case "vcs.time":
				if resolved.time == "" {
					resolved.time = setting.Value
				}
			}
		}
	}
	if resolved.commit == "" {
		resolved.commit = "unknown"
	}
	if resolved.time == "" {
		resolved.time = "unknown"
	}
	return resolved
}

// Info returns the one-line version printed by --version and logged at
// startup: "ultimdos 0.1.0 (abc1234-dirty, 2026-01-01T00:00:00Z)".
func Info() string {
	s := resolve()
	dirty := ""
	if s.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("ultimdos %s (%s%s, %s)", Version, s.commit, dirty, s.time)
}

// Full adds the announced protocol version and the Go toolchain.
func Full() string {
	return fmt.Sprintf("%s\n  Protocol: %d\n  Go: %s\n  Platform: %s/%s",
		Info(), mcproto.ProtocolVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
