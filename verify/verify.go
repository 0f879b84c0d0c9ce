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

// Package verify implements the proof verifier: §4.4 of the registry
// specification. Step ordering is load-bearing — the challenge is
// consumed before any other check, so replay of a failing proof cannot
// leave the challenge usable.
package verify

import (
	"crypto/ed25519"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/agentreg/didreg/canonical"
	"github.com/agentreg/didreg/challenge"
	"github.com/agentreg/didreg/did"
	"github.com/agentreg/didreg/protocol"
	"github.com/agentreg/didreg/session"
)

// Verifier validates a responder Proof against a pending challenge and,
// on success, mints a session and a counter-signed receipt.
type Verifier struct {
	issuerDID string
	issuerKey ed25519.PrivateKey
	pending   *challenge.Table
	sessions  *session.Store
	tokens    *session.TokenCodec
	now       func() time.Time
}

// New builds a Verifier wired to the server's identity and the shared
// pending-challenge table and session store.
func New(identity *did.Identity, pending *challenge.Table, sessions *session.Store, tokens *session.TokenCodec) *Verifier {
	return &Verifier{
		issuerDID: identity.DID,
		issuerKey: identity.Key,
		pending:   pending,
		sessions:  sessions,
		tokens:    tokens,
		now:       time.Now,
	}
}

// Verify runs the nine-step proof verification procedure and, on
// success, returns the ProofAccepted receipt. Its SessionID field is
// the opaque bearer token the caller must present as
// "Authorization: Bearer <session_id>" on subsequent requests.
func (v *Verifier) Verify(proof protocol.Proof) (protocol.ProofAccepted, error) {
	// Step 1: take(challenge_hash); absence is InvalidChallenge. This
	// happens before any other check so a failing proof can never be
	// retried against the same challenge.
	entry, ok := v.pending.Take(proof.ChallengeHash)
	if !ok {
		return protocol.ProofAccepted{}, protocol.New(protocol.InvalidChallenge, "unknown or already-consumed challenge")
	}
	c := entry.Challenge

	// Step 2: recompute canonical hash of the retrieved challenge.
	recomputed, err := canonical.Hash(c.SigningForm())
	if err != nil {
		return protocol.ProofAccepted{}, protocol.Wrap(protocol.Internal, "failed to hash challenge", err)
	}
	if recomputed != proof.ChallengeHash {
		return protocol.ProofAccepted{}, protocol.New(protocol.InvalidChallenge, "challenge hash mismatch")
	}

	// Step 3: expiry.
	if v.now().Unix() > c.ExpiresAt {
		return protocol.ProofAccepted{}, protocol.New(protocol.InvalidChallenge, "challenge expired")
	}

	// Step 4: responder_did must equal the challenge's audience.
	if proof.ResponderDID != c.Audience {
		return protocol.ProofAccepted{}, protocol.New(protocol.InvalidSignature, "responder did does not match challenge audience")
	}

	// Step 5: issuer must be echoed correctly.
	if proof.Issuer != c.Issuer {
		return protocol.ProofAccepted{}, protocol.New(protocol.InvalidSignature, "issuer mismatch")
	}

	// Step 6: verify responder_signature over canonical proof (signature elided).
	signingBytes, err := canonical.Encode(proof.SigningForm())
	if err != nil {
		return protocol.ProofAccepted{}, protocol.Wrap(protocol.Internal, "failed to encode proof", err)
	}
	sig, err := hex.DecodeString(proof.ResponderSignature)
	if err != nil {
		return protocol.ProofAccepted{}, protocol.New(protocol.InvalidSignature, "malformed signature encoding")
	}
	if err := did.Verify(proof.ResponderDID, signingBytes, sig); err != nil {
		return protocol.ProofAccepted{}, protocol.New(protocol.InvalidSignature, "signature verification failed")
	}

	// Step 7: mint ProofAccepted. The internal session id is a fresh
	// random (version 4) UUID; the value handed back to the caller is that id
	// wrapped in a signed bearer token (see session.TokenCodec).
	internalID := uuid.NewString()
	counterSig := ed25519.Sign(v.issuerKey, signingBytes)

	token, err := v.tokens.Encode(internalID)
	if err != nil {
		return protocol.ProofAccepted{}, protocol.Wrap(protocol.Internal, "failed to mint bearer token", err)
	}

	accepted := protocol.ProofAccepted{
		SessionID:        token,
		IssuerDID:        v.issuerDID,
		ResponderDID:     proof.ResponderDID,
		CounterSignature: hex.EncodeToString(counterSig),
	}

	// Step 8: insert session, keyed by the internal id encoded in the token.
	v.sessions.Insert(internalID, session.Session{DID: proof.ResponderDID, CreatedAt: v.now()})

	// Step 9: return ProofAccepted.
	return accepted, nil
}
