// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package challenge

import (
	"sync"
	"time"

	"github.com/agentreg/didreg/protocol"
)

// Entry is the verifier-context stored alongside a pending challenge:
// just the audience DID the proof must match, since the challenge
// itself already carries issuer/audience/expiry.
type Entry struct {
	Challenge protocol.Challenge
	Audience  string
}

// Table is the pending-challenge table keyed by challenge hash. All
// three shared tables in this system (this one, the session store, and
// the registry) follow the same readers-writer discipline: many
// concurrent reads, exclusive writes, never held across I/O.
type Table struct {
	mu   sync.RWMutex
	rows map[string]Entry

	stop chan struct{}
}

// NewTable constructs an empty pending-challenge table.
func NewTable() *Table {
	return &Table{
		rows: make(map[string]Entry),
	}
}

// Put inserts a pending challenge under hash. An existing row for the
// same hash is overwritten; a nonce collision at this key size is
// impossibly unlikely, so this is harmless.
func (t *Table) Put(hash string, c protocol.Challenge) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[hash] = Entry{Challenge: c, Audience: c.Audience}
}

// Take atomically removes and returns the row for hash, if present.
// This is the single-use guarantee: a concurrent second Take for the
// same hash always observes ok == false.
func (t *Table) Take(hash string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.rows[hash]
	if ok {
		delete(t.rows, hash)
	}
	return e, ok
}

// Sweep removes rows whose challenge has expired. Not required for
// correctness — Take followed by the expiry check in the verifier
// already rejects stale rows — but keeps memory bounded under load
// from callers that request a challenge and never complete the proof.
func (t *Table) Sweep(now time.Time) {
	cutoff := now.Unix()
	t.mu.Lock()
	defer t.mu.Unlock()
	for hash, e := range t.rows {
		if e.Challenge.ExpiresAt < cutoff {
			delete(t.rows, hash)
		}
	}
}

// Len reports the number of pending challenges, for health/metrics.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// StartCleanup runs Sweep on the given interval until StopCleanup is called.
func (t *Table) StartCleanup(interval time.Duration) {
	t.mu.Lock()
	if t.stop != nil {
		t.mu.Unlock()
		return
	}
	t.stop = make(chan struct{})
	stop := t.stop
	t.mu.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.Sweep(time.Now())
			case <-stop:
				return
			}
		}
	}()
}

// StopCleanup stops the background sweep goroutine, if running.
func (t *Table) StopCleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}
