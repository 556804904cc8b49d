// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package proxypool holds the SOCKS5 endpoints shared by every
// supervisor worker.
//
// Workers pick an endpoint uniformly at random for each connection
// attempt and report endpoints that fail to connect. A failing endpoint
// is evicted only while at least two remain, so a pool that starts
// non-empty never becomes empty: when the last relay is flaky, retrying
// it beats silently falling back to the operator's own address.
//
// Critical sections are a slice read or a slice splice. Persisting the
// pool after an eviction happens outside the pool lock, serialized by a
// separate lock so the file always ends up holding the newest snapshot.
package proxypool

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// Store persists the pool contents after a change.
type Store interface {
	Save(endpoints []string) error
}

// Pool is a mutex-guarded list of proxy endpoints.
type Pool struct {
	mu        sync.Mutex
	endpoints []string
	random    func(n int) int

	saveMu sync.Mutex
	store  Store
}

// New returns a pool seeded with endpoints. Duplicate entries are kept
// once. store may be nil, in which case evictions are not persisted.
func New(endpoints []string, store Store) *Pool {
	seen := make(map[string]struct{}, len(endpoints))
	unique := make([]string, 0, len(endpoints))
	for _, endpoint := range endpoints {
		if _, duplicate := seen[endpoint]; duplicate {
			continue
		}
		seen[endpoint] = struct{}{}
		unique = append(unique, endpoint)
	}
	return &Pool{
		endpoints: unique,
		random:    rand.IntN,
		store:     store,
	}
}

// Pick returns a uniformly random endpoint, or false when the pool is
// empty and the caller should connect directly.
func (p *Pool) Pick() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.endpoints) == 0 {
		return "", false
	}
	return p.endpoints[p.random(len(p.endpoints))], true
}

// Evict removes endpoint after a connect failure. The removal is
// refused when it would empty the pool (fewer than two entries) or
// when endpoint is no longer present because another worker already
// evicted it. Returns true when the endpoint was removed.
func (p *Pool) Evict(endpoint string) bool {
	p.mu.Lock()
	if len(p.endpoints) < 2 {
		p.mu.Unlock()
		return false
	}
	index := slices.Index(p.endpoints, endpoint)
	if index < 0 {
		p.mu.Unlock()
		return false
	}
	p.endpoints = slices.Delete(p.endpoints, index, index+1)
	p.mu.Unlock()
	return true
}

// Persist writes the current contents to the store. Callers invoke it
// after a successful Evict; it performs file I/O and must not be
// called while holding any other lock.
func (p *Pool) Persist() error {
	if p.store == nil {
		return nil
	}
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	return p.store.Save(p.Snapshot())
}

// Len returns the number of endpoints.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.endpoints)
}

// Snapshot returns a copy of the endpoints in pool order.
func (p *Pool) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.endpoints)
}
