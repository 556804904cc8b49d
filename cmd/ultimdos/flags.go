// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/themixrat/ultimdos/lib/config"
)

// overrides holds flag values that replace configuration fields. A
// field is only replaced when its flag was given on the command line.
type overrides struct {
	statusAddress   string
	host            string
	port            int
	protocolVersion int32
	stateDir        string
	playersFile     string
	proxiesFile     string
	logLevel        string
	maxSessions     int
	dialRate        float64
	dialBurst       int
}

func newFlagSet() (*pflag.FlagSet, *options, *overrides) {
	opts := &options{}
	values := &overrides{}

	flagSet := pflag.NewFlagSet("ultimdos", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "config file (YAML or JSONC; defaults to $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&values.statusAddress, "status-address", "", "host:port polled for the online roster")
	flagSet.StringVar(&values.host, "host", "", "game server host")
	flagSet.IntVar(&values.port, "port", 0, "game server port")
	flagSet.Int32Var(&values.protocolVersion, "protocol-version", 0, "protocol version announced in handshakes")
	flagSet.StringVar(&values.stateDir, "state-dir", "", "directory holding the state files")
	flagSet.StringVar(&values.playersFile, "players-file", "", "known roster file, relative to --state-dir")
	flagSet.StringVar(&values.proxiesFile, "proxies-file", "", "SOCKS5 proxy list, relative to --state-dir")
	flagSet.StringVar(&values.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.IntVar(&values.maxSessions, "max-sessions", 0, "maximum concurrent sessions (0 is unbounded)")
	flagSet.Float64Var(&values.dialRate, "dial-rate", 0, "session connects per second (0 disables pacing)")
	flagSet.IntVar(&values.dialBurst, "dial-burst", 0, "session connects allowed back to back")
	flagSet.BoolVar(&opts.createMissing, "create-missing", false, "create absent state files empty instead of failing")
	flagSet.BoolVar(&opts.showStatus, "show-status", false, "print the last status snapshot and exit")
	flagSet.StringVar(&opts.statusFormat, "status-format", "json", "--show-status output: json or diag (CBOR diagnostic notation)")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")

	flagSet.Usage = func() {
		fmt.Fprintf(flagSet.Output(), "Usage: ultimdos [flags]\n\n")
		fmt.Fprintf(flagSet.Output(), "Keeps every player the server has ever listed logged in.\n\n")
		fmt.Fprintf(flagSet.Output(), "Flags:\n")
		flagSet.PrintDefaults()
	}
	return flagSet, opts, values
}

// apply copies every flag that was set onto cfg.
func (o *overrides) apply(flagSet *pflag.FlagSet, cfg *config.Config) {
	if flagSet.Changed("status-address") {
		cfg.StatusAddress = o.statusAddress
	}
	if flagSet.Changed("host") {
		cfg.Host = o.host
	}
	if flagSet.Changed("port") {
		cfg.Port = o.port
	}
	if flagSet.Changed("protocol-version") {
		cfg.ProtocolVersion = o.protocolVersion
	}
	if flagSet.Changed("state-dir") {
		cfg.StateDir = os.ExpandEnv(o.stateDir)
	}
	if flagSet.Changed("players-file") {
		cfg.PlayersFile = o.playersFile
	}
	if flagSet.Changed("proxies-file") {
		cfg.ProxiesFile = o.proxiesFile
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flagSet.Changed("max-sessions") {
		cfg.Session.MaxSessions = o.maxSessions
	}
	if flagSet.Changed("dial-rate") {
		cfg.Dial.Rate = o.dialRate
	}
	if flagSet.Changed("dial-burst") {
		cfg.Dial.Burst = o.dialBurst
	}
}
