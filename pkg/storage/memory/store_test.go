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

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentreg/didreg/pkg/storage"
)

func TestRegistryUpsertAndGet(t *testing.T) {
	s := NewStore()
	reg := s.RegistryStore()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, reg.Upsert(ctx, &storage.RegistryRecord{
		DID: "did:key:alice", Endpoint: "https://a.example",
		RegisteredAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	rec, err := reg.Get(ctx, "did:key:alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "https://a.example", rec.Endpoint)

	require.NoError(t, reg.Upsert(ctx, &storage.RegistryRecord{
		DID: "did:key:alice", Endpoint: "https://b.example",
		RegisteredAt: now, ExpiresAt: now.Add(time.Hour),
	}))
	rec, err = reg.Get(ctx, "did:key:alice")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example", rec.Endpoint)
}

func TestRegistryGetMissingReturnsNilNil(t *testing.T) {
	s := NewStore()
	rec, err := s.RegistryStore().Get(context.Background(), "did:key:nobody")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRegistryDeleteExpired(t *testing.T) {
	s := NewStore()
	reg := s.RegistryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, reg.Upsert(ctx, &storage.RegistryRecord{
		DID: "did:key:stale", ExpiresAt: now.Add(-time.Second),
	}))
	require.NoError(t, reg.Upsert(ctx, &storage.RegistryRecord{
		DID: "did:key:fresh", ExpiresAt: now.Add(time.Hour),
	}))

	n, err := reg.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := reg.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionCreateGetDelete(t *testing.T) {
	s := NewStore()
	sess := s.SessionStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, sess.Create(ctx, &storage.SessionRecord{
		ID: "sess-1", DID: "did:key:alice", CreatedAt: now, ExpiresAt: now.Add(5 * time.Minute),
	}))

	rec, err := sess.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "did:key:alice", rec.DID)

	deleted, err := sess.Delete(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	rec, err = sess.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStorePingAndClose(t *testing.T) {
	s := NewStore()
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}
