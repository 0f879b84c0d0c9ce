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

package client

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentreg/didreg/challenge"
	"github.com/agentreg/didreg/did"
	"github.com/agentreg/didreg/httpapi"
	"github.com/agentreg/didreg/internal/logger"
	"github.com/agentreg/didreg/internal/metrics"
	"github.com/agentreg/didreg/registry"
	"github.com/agentreg/didreg/session"
)

// newTestRegistry spins up a real httpapi.Server over httptest for the
// client to talk to end-to-end, rather than mocking the transport.
func newTestRegistry(t *testing.T) (*httptest.Server, *did.Identity) {
	t.Helper()
	identity, err := did.GenerateIdentity()
	require.NoError(t, err)

	pending := challenge.NewTable()
	sessions := session.NewStore()
	tokens, err := session.NewTokenCodec(identity.Key)
	require.NoError(t, err)
	reg := registry.New()
	collector := metrics.NewCollector(prometheus.NewRegistry())

	srv := httpapi.New(identity, pending, sessions, tokens, reg, collector, logger.NewDefaultLogger(), 0, 0)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, identity
}

func TestAuthenticateReachesAuthenticatedState(t *testing.T) {
	ts, _ := newTestRegistry(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)

	c := New(ts.URL, alice)
	assert.Equal(t, StateIdle, c.State())

	require.NoError(t, c.Authenticate())
	assert.Equal(t, StateAuthenticated, c.State())
	assert.NotEmpty(t, c.SessionID())
}

func TestRegisterAndLookupRoundTrip(t *testing.T) {
	ts, _ := newTestRegistry(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)

	c := New(ts.URL, alice)
	require.NoError(t, c.Authenticate())

	_, err = c.Register("https://alice.example", time.Hour)
	require.NoError(t, err)

	resp, err := c.Lookup(alice.DID)
	require.NoError(t, err)
	assert.Equal(t, "https://alice.example", resp.Endpoint)
}

func TestDeregisterBeforeAuthenticateFails(t *testing.T) {
	ts, _ := newTestRegistry(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)

	c := New(ts.URL, alice)
	_, err = c.Deregister()
	assert.Error(t, err)
}

func TestUnauthenticatedLookupOfUnknownDID(t *testing.T) {
	ts, _ := newTestRegistry(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)

	c := New(ts.URL, alice)
	_, err = c.Lookup(alice.DID)
	assert.Error(t, err)
}

func TestRegisterDeregisterRoundTrip(t *testing.T) {
	ts, _ := newTestRegistry(t)
	alice, err := did.GenerateIdentity()
	require.NoError(t, err)

	c := New(ts.URL, alice)
	require.NoError(t, c.Authenticate())

	_, err = c.Register("https://alice.example", 0)
	require.NoError(t, err)

	resp, err := c.Deregister()
	require.NoError(t, err)
	assert.True(t, resp.OK)

	_, err = c.Lookup(alice.DID)
	assert.Error(t, err)
}
