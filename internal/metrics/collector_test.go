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

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prometheusTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	return prometheus.NewRegistry()
}

func newTestCollector(reg *prometheus.Registry) *Collector {
	return NewCollector(reg)
}

func TestCountersIncrementIndependently(t *testing.T) {
	reg := prometheusTestRegistry(t)
	c := newTestCollector(reg)

	c.HelloIssued()
	c.HelloIssued()
	c.ProofAccepted()
	c.ProofRejected("invalid_signature")
	c.ProofRejected("invalid_signature")
	c.ProofRejected("expired")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.helloIssued))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.helloRejected))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.proofAccepted))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.proofRejected.WithLabelValues("invalid_signature")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.proofRejected.WithLabelValues("expired")))
}

func TestLookupCountersAreDistinct(t *testing.T) {
	reg := prometheusTestRegistry(t)
	c := newTestCollector(reg)

	c.LookupHit()
	c.LookupHit()
	c.LookupMiss()
	c.LookupExpired()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.lookupHit))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.lookupMiss))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.lookupExpired))
}

func TestProofVerifiedRecordsObservation(t *testing.T) {
	reg := prometheusTestRegistry(t)
	c := newTestCollector(reg)

	c.ProofVerified(5 * time.Millisecond)

	var m dto.Metric
	require.NoError(t, c.proofVerifySecs.Write(&m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.Greater(t, m.GetHistogram().GetSampleSum(), 0.0)
}
