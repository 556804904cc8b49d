// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/themixrat/ultimdos/lib/codec"
	"github.com/themixrat/ultimdos/lib/keeper"
)

// showStatus prints the CBOR status snapshot at path, either decoded
// and re-encoded as indented JSON or as raw diagnostic notation.
func showStatus(path, format string, out io.Writer) error {
	if path == "" {
		return errors.New("status snapshot is disabled (status_file is empty)")
	}
	switch format {
	case "json":
		status, err := keeper.ReadStatus(path)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no status snapshot at %s (is ultimdos running?)", path)
		}
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)

	case "diag":
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no status snapshot at %s (is ultimdos running?)", path)
		}
		if err != nil {
			return err
		}
		notation, err := codec.Diagnose(data)
		if err != nil {
			return fmt.Errorf("decoding status %s: %w", path, err)
		}
		_, err = fmt.Fprintln(out, notation)
		return err

	default:
		return fmt.Errorf("unknown status format %q (want json or diag)", format)
	}
}
