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

// Package session implements the bearer session store: §4.5 of the
// registry specification. Sessions are non-sliding — a read never
// extends created_at — and age out 300 seconds after mint with no
// explicit renewal path.
package session

import (
	"sync"
	"time"
)

// Lifetime is the fixed window a minted session remains usable for.
const Lifetime = 300 * time.Second

// Session binds a session id to the DID that authenticated it.
type Session struct {
	DID       string
	CreatedAt time.Time
}

// Store is the in-memory session table.
type Store struct {
	mu       sync.RWMutex
	rows     map[string]Session
	lifetime time.Duration

	stop chan struct{}
}

// NewStore constructs an empty session store whose rows age out after Lifetime.
func NewStore() *Store {
	return &Store{rows: make(map[string]Session), lifetime: Lifetime}
}

// SetLifetime overrides the window a minted session remains usable for,
// e.g. from a deployment's configured handshake.session_ttl.
func (s *Store) SetLifetime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lifetime = d
}

// Insert stores a newly minted session.
func (s *Store) Insert(sessionID string, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[sessionID] = sess
}

// Get returns the session for sessionID, or ok=false if it does not
// exist or has aged out (now - created_at >= Lifetime). It does not
// mutate CreatedAt: sessions are not sliding.
func (s *Store) Get(sessionID string) (Session, bool) {
	s.mu.RLock()
	sess, exists := s.rows[sessionID]
	lifetime := s.lifetime
	s.mu.RUnlock()
	if !exists {
		return Session{}, false
	}
	if time.Since(sess.CreatedAt) >= lifetime {
		s.Remove(sessionID)
		return Session{}, false
	}
	return sess, true
}

// Remove deletes a session unconditionally.
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, sessionID)
}

// Len reports the number of sessions currently stored (including any
// not yet pruned for expiry), for health/metrics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Sweep removes sessions that have aged out. Not required for
// correctness — Get already rejects stale rows — but bounds memory use.
func (s *Store) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.rows {
		if now.Sub(sess.CreatedAt) >= s.lifetime {
			delete(s.rows, id)
		}
	}
}

// StartCleanup runs Sweep on the given interval until StopCleanup is called.
func (s *Store) StartCleanup(interval time.Duration) {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(time.Now())
			case <-stop:
				return
			}
		}
	}()
}

// StopCleanup stops the background sweep goroutine, if running.
func (s *Store) StopCleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
