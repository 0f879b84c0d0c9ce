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

// Package metrics exposes the registry's counters to Prometheus via
// promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the handshake and registry counters scraped at /metrics.
type Collector struct {
	helloIssued     prometheus.Counter
	helloRejected   prometheus.Counter
	proofAccepted   prometheus.Counter
	proofRejected   *prometheus.CounterVec
	proofVerifySecs prometheus.Histogram
	registered      prometheus.Counter
	deregistered    prometheus.Counter
	lookupHit       prometheus.Counter
	lookupMiss      prometheus.Counter
	lookupExpired   prometheus.Counter
}

// NewCollector registers the collector's metric set against reg and
// returns it. Production callers pass prometheus.DefaultRegisterer;
// tests pass a fresh prometheus.NewRegistry() so repeated construction
// doesn't panic on duplicate registration.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		helloIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "hello_issued_total",
			Help:      "Challenges issued in response to a hello.",
		}),
		helloRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "hello_rejected_total",
			Help:      "Hello requests rejected before a challenge was issued.",
		}),
		proofAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "proof_accepted_total",
			Help:      "Proofs that completed the handshake and minted a session.",
		}),
		proofRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "proof_rejected_total",
			Help:      "Proofs rejected, labeled by the protocol error code.",
		}, []string{"code"}),
		proofVerifySecs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "didreg",
			Name:      "proof_verify_seconds",
			Help:      "Time spent running the proof verification steps.",
			Buckets:   prometheus.DefBuckets,
		}),
		registered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "registered_total",
			Help:      "Successful endpoint registrations.",
		}),
		deregistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "deregistered_total",
			Help:      "Successful deregistrations.",
		}),
		lookupHit: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "lookup_hit_total",
			Help:      "Lookups resolved to a live registration.",
		}),
		lookupMiss: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "lookup_miss_total",
			Help:      "Lookups for a did with no registration.",
		}),
		lookupExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "didreg",
			Name:      "lookup_expired_total",
			Help:      "Lookups that found a row past its TTL.",
		}),
	}
}

func (c *Collector) HelloIssued()               { c.helloIssued.Inc() }
func (c *Collector) HelloRejected()             { c.helloRejected.Inc() }
func (c *Collector) ProofAccepted()             { c.proofAccepted.Inc() }
func (c *Collector) ProofRejected(code string)  { c.proofRejected.WithLabelValues(code).Inc() }
func (c *Collector) ProofVerified(d time.Duration) { c.proofVerifySecs.Observe(d.Seconds()) }
func (c *Collector) Registered()                { c.registered.Inc() }
func (c *Collector) Deregistered()              { c.deregistered.Inc() }
func (c *Collector) LookupHit()                 { c.lookupHit.Inc() }
func (c *Collector) LookupMiss()                { c.lookupMiss.Inc() }
func (c *Collector) LookupExpired()             { c.lookupExpired.Inc() }
