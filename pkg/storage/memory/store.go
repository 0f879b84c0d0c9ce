// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

// Package memory implements storage.Store in process memory. Its tests
// describe the behavioral contract the postgres-backed variant shares;
// cmd/didreg-server does not use either variant.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/agentreg/didreg/pkg/storage"
)

// Store implements storage.Store with in-memory maps.
type Store struct {
	registryMu sync.RWMutex
	registry   map[string]storage.RegistryRecord

	sessionMu sync.RWMutex
	sessions  map[string]storage.SessionRecord
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		registry: make(map[string]storage.RegistryRecord),
		sessions: make(map[string]storage.SessionRecord),
	}
}

// RegistryStore returns the registry store view.
func (s *Store) RegistryStore() storage.RegistryStore {
	return (*registryView)(s)
}

// SessionStore returns the session store view.
func (s *Store) SessionStore() storage.SessionStore {
	return (*sessionView)(s)
}

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// Ping always succeeds for the memory store.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Clear removes all data. Useful for tests.
func (s *Store) Clear() {
	s.registryMu.Lock()
	s.registry = make(map[string]storage.RegistryRecord)
	s.registryMu.Unlock()

	s.sessionMu.Lock()
	s.sessions = make(map[string]storage.SessionRecord)
	s.sessionMu.Unlock()
}

type registryView Store

func (r *registryView) Upsert(ctx context.Context, rec *storage.RegistryRecord) error {
	s := (*Store)(r)
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	s.registry[rec.DID] = *rec
	return nil
}

func (r *registryView) Get(ctx context.Context, did string) (*storage.RegistryRecord, error) {
	s := (*Store)(r)
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()
	rec, ok := s.registry[did]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *registryView) Delete(ctx context.Context, did string) (bool, error) {
	s := (*Store)(r)
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	if _, ok := s.registry[did]; !ok {
		return false, nil
	}
	delete(s.registry, did)
	return true, nil
}

func (r *registryView) DeleteExpired(ctx context.Context) (int64, error) {
	s := (*Store)(r)
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	now := time.Now()
	var count int64
	for did, rec := range s.registry {
		if now.After(rec.ExpiresAt) {
			delete(s.registry, did)
			count++
		}
	}
	return count, nil
}

func (r *registryView) Count(ctx context.Context) (int64, error) {
	s := (*Store)(r)
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()
	return int64(len(s.registry)), nil
}

type sessionView Store

func (v *sessionView) Create(ctx context.Context, rec *storage.SessionRecord) error {
	s := (*Store)(v)
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.sessions[rec.ID] = *rec
	return nil
}

func (v *sessionView) Get(ctx context.Context, id string) (*storage.SessionRecord, error) {
	s := (*Store)(v)
	s.sessionMu.RLock()
	defer s.sessionMu.RUnlock()
	rec, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (v *sessionView) Delete(ctx context.Context, id string) (bool, error) {
	s := (*Store)(v)
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return true, nil
}

func (v *sessionView) DeleteExpired(ctx context.Context) (int64, error) {
	s := (*Store)(v)
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	now := time.Now()
	var count int64
	for id, rec := range s.sessions {
		if now.After(rec.ExpiresAt) {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

func (v *sessionView) Count(ctx context.Context) (int64, error) {
	s := (*Store)(v)
	s.sessionMu.RLock()
	defer s.sessionMu.RUnlock()
	return int64(len(s.sessions)), nil
}
