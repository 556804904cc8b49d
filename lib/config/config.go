// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "ULTIMDOS_CONFIG"

// Config is the master configuration for ultimdos.
type Config struct {
	// StatusAddress is the host:port dialed for roster polls. It is
	// often the same as the game address but may be a separate
	// listener.
	StatusAddress string `yaml:"status_address"`

	// Host and Port identify the game server. Sessions dial them
	// (directly or through a proxy) and every handshake carries them,
	// including the status poll's.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// ProtocolVersion is sent in every handshake.
	// Default: 763
	ProtocolVersion int32 `yaml:"protocol_version"`

	// StateDir holds the players file, the proxies file, the status
	// snapshot and the instance lock.
	// Default: current directory
	StateDir string `yaml:"state_dir"`

	// PlayersFile is the known roster, one name per line.
	// Default: all_players.txt
	PlayersFile string `yaml:"players_file"`

	// ProxiesFile is the SOCKS5 pool, one endpoint per line.
	// Default: proxies.txt
	ProxiesFile string `yaml:"proxies_file"`

	// StatusFile receives the CBOR runtime snapshot after every cycle.
	// Empty disables the snapshot.
	// Default: status.cbor
	StatusFile string `yaml:"status_file"`

	// Exclude lists names that are never mirrored, typically the
	// placeholder entries some servers put in the status sample.
	// Default: ["Anonymous Player"]
	Exclude []string `yaml:"exclude"`

	// LogLevel is one of debug, info, warn, error.
	// Default: info
	LogLevel string `yaml:"log_level"`

	Poll    PollConfig    `yaml:"poll"`
	Session SessionConfig `yaml:"session"`
	Dial    DialConfig    `yaml:"dial"`
}

// PollConfig controls the keeper's roster poll cadence.
type PollConfig struct {
	// Interval is the delay between cycles after a successful poll.
	// Default: 1s
	Interval time.Duration `yaml:"interval"`

	// FailureDelay is the delay after a failed poll.
	// Default: 5s
	FailureDelay time.Duration `yaml:"failure_delay"`

	// Timeout bounds one whole poll exchange.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig controls supervisor workers and protocol sessions.
type SessionConfig struct {
	// ReadTimeout bounds every blocking read inside a session. A
	// server that goes silent for longer ends the session with an
	// error and the worker reconnects.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// DialTimeout bounds the TCP connect, including the SOCKS5
	// negotiation when a proxy is used.
	// Default: 10s
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// ThrottleCooldown is the pause after a "connection throttled"
	// disconnect before the worker may reconnect.
	// Default: 4s
	ThrottleCooldown time.Duration `yaml:"throttle_cooldown"`

	// BackoffInitial is the first reconnect delay after a failed or
	// rejected session. Zero means reconnect immediately every time.
	// Default: 500ms
	BackoffInitial time.Duration `yaml:"backoff_initial"`

	// BackoffMax caps the exponential reconnect delay.
	// Default: 30s
	BackoffMax time.Duration `yaml:"backoff_max"`

	// MaxSessions caps the number of concurrent workers. Zero is
	// unbounded.
	// Default: 0
	MaxSessions int `yaml:"max_sessions"`
}

// DialConfig paces outbound session connects across all workers.
type DialConfig struct {
	// Rate is the sustained connects per second. Zero disables
	// pacing.
	// Default: 0
	Rate float64 `yaml:"rate"`

	// Burst is how many connects may start back to back.
	// Default: 1
	Burst int `yaml:"burst"`
}

// Default returns the default configuration. The required fields
// (StatusAddress, Host, Port) are left empty.
func Default() *Config {
	return &Config{
		ProtocolVersion: 763,
		StateDir:        ".",
		PlayersFile:     "all_players.txt",
		ProxiesFile:     "proxies.txt",
		StatusFile:      "status.cbor",
		Exclude:         []string{"Anonymous Player"},
		LogLevel:        "info",
		Poll: PollConfig{
			Interval:     time.Second,
			FailureDelay: 5 * time.Second,
			Timeout:      10 * time.Second,
		},
		Session: SessionConfig{
			ReadTimeout:      30 * time.Second,
			DialTimeout:      10 * time.Second,
			ThrottleCooldown: 4 * time.Second,
			BackoffInitial:   500 * time.Millisecond,
			BackoffMax:       30 * time.Second,
		},
		Dial: DialConfig{
			Burst: 1,
		},
	}
}

// Load loads configuration from the file named by ULTIMDOS_CONFIG.
// When the variable is unset it returns Default(); the required fields
// then come from flags or the interactive prompt.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path on top of
// Default(). Keys absent from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile merges a single configuration file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a YAML subset once comments and trailing commas
		// are gone, so both formats share the yaml tags.
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.StateDir = expandVars(c.StateDir, vars)
	vars["ULTIMDOS_STATE"] = c.StateDir

	c.PlayersFile = expandVars(c.PlayersFile, vars)
	c.ProxiesFile = expandVars(c.ProxiesFile, vars)
	c.StatusFile = expandVars(c.StatusFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, preferring
// vars over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Path resolves a state file name against StateDir. Absolute names and
// the empty string are returned unchanged.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.StateDir, name)
}

// GameAddress returns host:port for session dials.
func (c *Config) GameAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Missing returns the flag names of required values that are unset,
// in prompt order.
func (c *Config) Missing() []string {
	var missing []string
	if c.StatusAddress == "" {
		missing = append(missing, "status-address")
	}
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Port == 0 {
		missing = append(missing, "port")
	}
	return missing
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	for _, name := range c.Missing() {
		errs = append(errs, fmt.Errorf("%s is required", strings.ReplaceAll(name, "-", "_")))
	}

	if c.StatusAddress != "" {
		if _, _, err := net.SplitHostPort(c.StatusAddress); err != nil {
			errs = append(errs, fmt.Errorf("status_address %q must be host:port: %w", c.StatusAddress, err))
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	if c.ProtocolVersion <= 0 {
		errs = append(errs, fmt.Errorf("protocol_version must be positive"))
	}
	if c.PlayersFile == "" {
		errs = append(errs, fmt.Errorf("players_file is required"))
	}
	if c.ProxiesFile == "" {
		errs = append(errs, fmt.Errorf("proxies_file is required"))
	}
	if !contains([]string{"debug", "info", "warn", "warning", "error", ""}, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error"))
	}

	if c.Poll.Interval <= 0 {
		errs = append(errs, fmt.Errorf("poll.interval must be positive"))
	}
	if c.Poll.FailureDelay < 0 {
		errs = append(errs, fmt.Errorf("poll.failure_delay must not be negative"))
	}
	if c.Poll.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("poll.timeout must be positive"))
	}

	if c.Session.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("session.read_timeout must be positive"))
	}
	if c.Session.DialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("session.dial_timeout must be positive"))
	}
	if c.Session.ThrottleCooldown < 0 {
		errs = append(errs, fmt.Errorf("session.throttle_cooldown must not be negative"))
	}
	if c.Session.BackoffInitial < 0 {
		errs = append(errs, fmt.Errorf("session.backoff_initial must not be negative"))
	}
	if c.Session.BackoffMax < c.Session.BackoffInitial {
		errs = append(errs, fmt.Errorf("session.backoff_max must be at least session.backoff_initial"))
	}
	if c.Session.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("session.max_sessions must not be negative"))
	}

	if c.Dial.Rate < 0 {
		errs = append(errs, fmt.Errorf("dial.rate must not be negative"))
	}
	if c.Dial.Rate > 0 && c.Dial.Burst < 1 {
		errs = append(errs, fmt.Errorf("dial.burst must be at least 1 when dial.rate is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
