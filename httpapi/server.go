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

// Package httpapi exposes the registry's HTTP surface: /hello, /proof,
// /register, /deregister, /lookup/{did}, /health, and /metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentreg/didreg/challenge"
	"github.com/agentreg/didreg/did"
	"github.com/agentreg/didreg/internal/logger"
	"github.com/agentreg/didreg/internal/metrics"
	"github.com/agentreg/didreg/pkg/health"
	"github.com/agentreg/didreg/registry"
	"github.com/agentreg/didreg/session"
	"github.com/agentreg/didreg/verify"
)

// Server is the registry's HTTP server.
type Server struct {
	identity *did.Identity
	factory  *challenge.Factory
	pending  *challenge.Table
	verifier *verify.Verifier
	sessions *session.Store
	auth     *session.Authenticator
	registry *registry.Registry
	checker  *health.Checker
	metrics  *metrics.Collector
	log      logger.Logger

	httpServer *http.Server
}

// New wires a Server over the given shared state. challengeTTL and
// sessionTTL override how long a minted challenge or session remains
// valid; pass 0 for either to keep the package defaults
// (challenge.Lifetime, session.Lifetime).
func New(identity *did.Identity, pending *challenge.Table, sessions *session.Store, tokens *session.TokenCodec, reg *registry.Registry, m *metrics.Collector, log logger.Logger, challengeTTL, sessionTTL time.Duration) *Server {
	factory := challenge.NewFactory(identity)
	if challengeTTL != 0 {
		factory.SetLifetime(challengeTTL)
	}
	if sessionTTL > 0 {
		sessions.SetLifetime(sessionTTL)
	}

	return &Server{
		identity: identity,
		factory:  factory,
		pending:  pending,
		verifier: verify.New(identity, pending, sessions, tokens),
		sessions: sessions,
		auth:     session.NewAuthenticator(tokens, sessions),
		registry: reg,
		checker:  health.NewChecker(pending, sessions, reg),
		metrics:  m,
		log:      log,
	}
}

// Handler builds the routed http.Handler, exported separately from
// Listen/Shutdown so tests can exercise it with httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/live", s.handleLiveness)
	mux.HandleFunc("GET /health/ready", s.handleReadiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /hello", s.handleHello)
	mux.HandleFunc("POST /proof", s.handleProof)
	mux.HandleFunc("POST /register", s.requireSession(s.handleRegister))
	mux.HandleFunc("POST /deregister", s.requireSession(s.handleDeregister))
	mux.HandleFunc("GET /lookup/{did}", s.handleLookup)

	return mux
}

// Listen starts the HTTP server on addr.
func (s *Server) Listen(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.log.Info("starting registry http server", logger.String("addr", addr), logger.String("did", s.identity.DID))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
