// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statefile

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the name of the lock file created in the state
// directory.
const LockFileName = ".ultimdos.lock"

// ErrLocked is returned by Lock when another process holds the state
// directory.
var ErrLocked = errors.New("state directory is locked by another process")

// DirLock is a held advisory lock on a state directory.
type DirLock struct {
	file *flock.Flock
}

// Lock takes an exclusive, non-blocking lock on directory. It returns
// an error wrapping ErrLocked when another process already holds it.
func Lock(directory string) (*DirLock, error) {
	path := filepath.Join(directory, LockFileName)
	file := flock.New(path)
	locked, err := file.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	return &DirLock{file: file}, nil
}

// Path returns the lock file path.
func (l *DirLock) Path() string {
	return l.file.Path()
}

// Unlock releases the lock. The lock file itself is left in place.
func (l *DirLock) Unlock() error {
	return l.file.Unlock()
}
