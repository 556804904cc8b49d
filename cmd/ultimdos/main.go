// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/themixrat/ultimdos/lib/clock"
	"github.com/themixrat/ultimdos/lib/config"
	"github.com/themixrat/ultimdos/lib/keeper"
	"github.com/themixrat/ultimdos/lib/logging"
	"github.com/themixrat/ultimdos/lib/process"
	"github.com/themixrat/ultimdos/lib/proxypool"
	"github.com/themixrat/ultimdos/lib/roster"
	"github.com/themixrat/ultimdos/lib/session"
	"github.com/themixrat/ultimdos/lib/statefile"
	"github.com/themixrat/ultimdos/lib/supervisor"
	"github.com/themixrat/ultimdos/lib/version"
	"github.com/themixrat/ultimdos/transport"
)

func main() {
	env := environment{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	if err := run(os.Args[1:], env); err != nil {
		process.Fatal(err)
	}
}

// environment is the process I/O run works against.
type environment struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool
}

// options holds the flags that are not configuration values.
type options struct {
	configPath    string
	createMissing bool
	showStatus    bool
	statusFormat  string
	showVersion   bool
}

func run(args []string, env environment) error {
	flagSet, opts, overrides := newFlagSet()
	flagSet.SetOutput(env.stderr)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	if opts.showVersion {
		fmt.Fprintln(env.stdout, version.Full())
		return nil
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	overrides.apply(flagSet, cfg)

	if opts.showStatus {
		return showStatus(cfg.Path(cfg.StatusFile), opts.statusFormat, env.stdout)
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		if !env.interactive {
			return fmt.Errorf("missing required settings %v (set them with flags or a config file)", missing)
		}
		if err := prompt(cfg, missing, env.stdin, env.stderr); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, env.stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, opts.createMissing, logger)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// serve wires the components together and runs the keeper until ctx is
// cancelled, then waits for every worker to drain.
func serve(ctx context.Context, cfg *config.Config, createMissing bool, logger *slog.Logger) error {
	if createMissing {
		if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
	}
	lock, err := statefile.Lock(cfg.StateDir)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	playersPath := cfg.Path(cfg.PlayersFile)
	proxiesPath := cfg.Path(cfg.ProxiesFile)
	players, err := loadList("players", playersPath, createMissing, logger)
	if err != nil {
		return err
	}
	proxies, err := loadList("proxies", proxiesPath, createMissing, logger)
	if err != nil {
		return err
	}

	exclude := roster.NewExclusion(cfg.Exclude)
	known := roster.NewKnown(players, exclude)
	pool := proxypool.New(validEndpoints(proxies, logger), statefile.ListStore{Path: proxiesPath})

	realClock := clock.Real()
	limiter := transport.NewLimiter(cfg.Dial.Rate, cfg.Dial.Burst)
	port := uint16(cfg.Port)

	slots := supervisor.New(supervisor.Config{
		Address: cfg.GameAddress(),
		Pool:    pool,
		Direct:  transport.Paced(&transport.TCPDialer{Timeout: cfg.Session.DialTimeout}, limiter),
		Proxy: func(endpoint string) transport.Dialer {
			return transport.Paced(&transport.SOCKS5Dialer{Endpoint: endpoint, Timeout: cfg.Session.DialTimeout}, limiter)
		},
		Session: supervisor.SessionRunner(session.Config{
			Host:             cfg.Host,
			Port:             port,
			ProtocolVersion:  cfg.ProtocolVersion,
			ReadTimeout:      cfg.Session.ReadTimeout,
			ThrottleCooldown: cfg.Session.ThrottleCooldown,
			Clock:            realClock,
			Logger:           logger,
		}),
		Backoff: supervisor.Backoff{
			Initial: cfg.Session.BackoffInitial,
			Max:     cfg.Session.BackoffMax,
		},
		MaxSessions: cfg.Session.MaxSessions,
		Clock:       realClock,
		Logger:      logger,
	})

	loop := keeper.New(keeper.Config{
		Poller: &roster.Poller{
			Address:         cfg.StatusAddress,
			Host:            cfg.Host,
			Port:            port,
			ProtocolVersion: cfg.ProtocolVersion,
			Timeout:         cfg.Poll.Timeout,
			Exclude:         exclude,
		},
		Supervisor:   slots,
		Known:        known,
		Players:      statefile.ListStore{Path: playersPath},
		Pool:         pool,
		StatusPath:   cfg.Path(cfg.StatusFile),
		Interval:     cfg.Poll.Interval,
		FailureDelay: cfg.Poll.FailureDelay,
		Clock:        realClock,
		Logger:       logger,
	})

	logger.Info("starting ultimdos",
		"version", version.Info(),
		"status_address", cfg.StatusAddress,
		"game_address", cfg.GameAddress(),
		"known_players", known.Len(),
		"proxies", pool.Len(),
	)

	err = loop.Run(ctx)
	logger.Info("shutting down, waiting for workers", "active", slots.Len())
	slots.Wait()
	return err
}

// loadList reads a required state list. With createMissing an absent
// file is created empty first.
func loadList(kind, path string, createMissing bool, logger *slog.Logger) ([]string, error) {
	if createMissing {
		created, err := statefile.EnsureFile(path)
		if err != nil {
			return nil, err
		}
		if created {
			logger.Info("created empty state file", "kind", kind, "path", path)
		}
	}
	entries, err := statefile.ReadList(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s file %s does not exist (create it or run with --create-missing)", kind, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", kind, err)
	}
	return entries, nil
}

// validEndpoints drops proxy lines that cannot be parsed.
func validEndpoints(endpoints []string, logger *slog.Logger) []string {
	valid := endpoints[:0:0]
	for _, endpoint := range endpoints {
		if _, _, err := transport.ParseEndpoint(endpoint); err != nil {
			logger.Warn("ignoring malformed proxy", "proxy", endpoint, "error", err)
			continue
		}
		valid = append(valid, endpoint)
	}
	return valid
}
