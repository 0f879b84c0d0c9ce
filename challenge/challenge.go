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

// Package challenge implements the challenge factory and the
// pending-challenge table: §4.2 and §4.3 of the registry specification.
package challenge

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/agentreg/didreg/canonical"
	"github.com/agentreg/didreg/did"
	"github.com/agentreg/didreg/protocol"
)

// Lifetime is the fixed window a minted challenge remains valid for.
const Lifetime = 60 * time.Second

// Factory mints issuer-signed challenges bound to a responder DID.
type Factory struct {
	issuerDID string
	issuerKey ed25519.PrivateKey
	now       func() time.Time
	lifetime  time.Duration
}

// NewFactory builds a Factory that signs challenges with the server's
// identity, minting challenges that expire after Lifetime.
func NewFactory(identity *did.Identity) *Factory {
	return &Factory{
		issuerDID: identity.DID,
		issuerKey: identity.Key,
		now:       time.Now,
		lifetime:  Lifetime,
	}
}

// SetLifetime overrides the window newly minted challenges remain valid
// for, e.g. from a deployment's configured handshake.challenge_ttl.
func (f *Factory) SetLifetime(d time.Duration) {
	f.lifetime = d
}

// Create mints a Challenge scoped to hello.DID. Fails with InvalidDid if
// the responder DID is malformed, Internal on RNG or signing error.
func (f *Factory) Create(hello protocol.Hello) (protocol.Challenge, error) {
	if !did.Valid(hello.DID) {
		return protocol.Challenge{}, protocol.New(protocol.InvalidDid, "malformed responder did")
	}

	nonce := make([]byte, 16) // 128 bits
	if _, err := rand.Read(nonce); err != nil {
		return protocol.Challenge{}, protocol.Wrap(protocol.Internal, "failed to draw nonce", err)
	}

	now := f.now().Unix()
	c := protocol.Challenge{
		Issuer:    f.issuerDID,
		Audience:  hello.DID,
		Nonce:     hex.EncodeToString(nonce),
		IssuedAt:  now,
		ExpiresAt: now + int64(f.lifetime.Seconds()),
	}

	sigBytes, err := canonical.Encode(c.SigningForm())
	if err != nil {
		return protocol.Challenge{}, protocol.Wrap(protocol.Internal, "failed to encode challenge", err)
	}
	c.IssuerSignature = hex.EncodeToString(ed25519.Sign(f.issuerKey, sigBytes))

	return c, nil
}
