// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadList loads a newline-separated list. When the file does not
// exist, the returned error wraps os.ErrNotExist (testable with
// errors.Is).
func ReadList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseList(data), nil
}

// ParseList splits data into trimmed, non-blank lines.
func ParseList(data []byte) []string {
	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), len(data)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

// FormatList renders entries one per line, each followed by '\n'.
func FormatList(entries []string) []byte {
	var buffer bytes.Buffer
	for _, entry := range entries {
		buffer.WriteString(entry)
		buffer.WriteByte('\n')
	}
	return buffer.Bytes()
}

// WriteList atomically replaces path with entries.
func WriteList(path string, entries []string) error {
	return WriteFile(path, FormatList(entries))
}

// EnsureFile creates an empty file at path when nothing exists there.
// Returns true when the file was created.
func EnsureFile(path string) (bool, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("creating %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("closing %s: %w", path, err)
	}
	return true, nil
}

// WriteFile atomically writes data to path. The data is written to a
// temporary file in the same directory, fsynced, and renamed into
// place. Readers never see a partial write. The parent directory must
// already exist.
func WriteFile(path string, data []byte) error {
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}

	// Write, sync, close. If any step fails, remove the temporary file
	// and report the first error.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary file for %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary file for %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary file for %s: %w", path, err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming %s into place: %w", path, err)
	}

	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// ListStore persists a list to a fixed path. It satisfies
// proxypool.Store.
type ListStore struct {
	Path string
}

// Save atomically rewrites the list file.
func (s ListStore) Save(entries []string) error {
	return WriteList(s.Path, entries)
}
