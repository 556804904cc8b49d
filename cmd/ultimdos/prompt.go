// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/themixrat/ultimdos/lib/config"
)

// prompt asks for each missing required setting on out and reads the
// answers from in, one line each. Empty answers are asked again.
func prompt(cfg *config.Config, missing []string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for _, name := range missing {
		for {
			fmt.Fprintf(out, "%s: ", promptLabel(name))
			line, err := reader.ReadString('\n')
			answer := strings.TrimSpace(line)
			if answer == "" {
				if err != nil {
					return fmt.Errorf("no value entered for %s: %w", name, err)
				}
				continue
			}
			if err := assign(cfg, name, answer); err != nil {
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}
			break
		}
	}
	return nil
}

func promptLabel(name string) string {
	switch name {
	case "status-address":
		return "Status address (host:port)"
	case "host":
		return "Game server host"
	case "port":
		return "Game server port"
	default:
		return name
	}
}

func assign(cfg *config.Config, name, value string) error {
	switch name {
	case "status-address":
		cfg.StatusAddress = value
	case "host":
		cfg.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("port must be a number between 1 and 65535")
		}
		cfg.Port = port
	default:
		return fmt.Errorf("unknown setting %q", name)
	}
	return nil
}
