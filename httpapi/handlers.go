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

package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agentreg/didreg/canonical"
	"github.com/agentreg/didreg/protocol"
	"github.com/agentreg/didreg/registry"
	"github.com/agentreg/didreg/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	status := s.checker.CheckAll()
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	var hello protocol.Hello
	if err := json.NewDecoder(r.Body).Decode(&hello); err != nil {
		writeError(w, protocol.New(protocol.InvalidDid, "malformed request body"))
		return
	}

	c, err := s.factory.Create(hello)
	if err != nil {
		s.metrics.HelloRejected()
		writeError(w, err)
		return
	}

	hash, err := canonical.Hash(c.SigningForm())
	if err != nil {
		writeError(w, protocol.Wrap(protocol.Internal, "failed to hash challenge", err))
		return
	}
	s.pending.Put(hash, c)
	s.metrics.HelloIssued()

	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	var proof protocol.Proof
	if err := json.NewDecoder(r.Body).Decode(&proof); err != nil {
		writeError(w, protocol.New(protocol.InvalidChallenge, "malformed request body"))
		return
	}

	start := time.Now()
	accepted, err := s.verifier.Verify(proof)
	s.metrics.ProofVerified(time.Since(start))
	if err != nil {
		s.metrics.ProofRejected(string(protocol.AsRegError(err).Code))
		writeError(w, err)
		return
	}
	s.metrics.ProofAccepted()

	writeJSON(w, http.StatusOK, accepted)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, sess session.Session) {
	var req protocol.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, protocol.New(protocol.HandshakeError, "malformed request body"))
		return
	}

	ttl := time.Duration(req.TTL) * time.Second
	if req.TTL == 0 {
		ttl = protocol.DefaultRegistrationTTL * time.Second
	}

	entry := s.registry.Register(sess.DID, req.Endpoint, ttl, time.Now())
	s.metrics.Registered()

	writeJSON(w, http.StatusOK, protocol.RegisterResponse{
		OK:        true,
		DID:       entry.DID,
		ExpiresAt: entry.ExpiresAt.Unix(),
	})
}

func (s *Server) handleDeregister(w http.ResponseWriter, r *http.Request, sess session.Session) {
	ok := s.registry.Deregister(sess.DID)
	if ok {
		s.metrics.Deregistered()
	}
	writeJSON(w, http.StatusOK, protocol.DeregisterResponse{OK: ok})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	didParam := r.PathValue("did")

	entry, status := s.registry.Lookup(didParam, time.Now())
	switch status {
	case registry.StatusMissing:
		s.metrics.LookupMiss()
		writeError(w, protocol.New(protocol.NotFound, "no registration for this did"))
	case registry.StatusExpired:
		s.metrics.LookupExpired()
		writeError(w, protocol.New(protocol.Expired, "registration expired"))
	default:
		s.metrics.LookupHit()
		writeJSON(w, http.StatusOK, protocol.LookupResponse{
			DID:          entry.DID,
			Endpoint:     entry.Endpoint,
			Status:       protocol.StatusOnline,
			RegisteredAt: entry.RegisteredAt.Unix(),
			ExpiresAt:    entry.ExpiresAt.Unix(),
		})
	}
}

func writeError(w http.ResponseWriter, err error) {
	re := protocol.AsRegError(err)
	writeJSON(w, re.Status(), protocol.ErrorBody{Error: re.Message})
}
