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

package session

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// TokenCodec encodes/decodes the opaque session id carried in the
// Authorization: Bearer header as a signed JWT. The in-memory Store
// remains the authority on whether a session is live; the JWT is signed
// but not encrypted, so the session id stays readable in its payload, and
// the signature lets the bearer header be validated before a map lookup.
type TokenCodec struct {
	signingKey []byte
}

// NewTokenCodec derives an HMAC signing key from the server's root
// private key via HKDF, so no separate secret needs to be provisioned
// or persisted alongside server identity.
func NewTokenCodec(rootKey ed25519.PrivateKey) (*TokenCodec, error) {
	kdf := hkdf.New(sha256.New, rootKey.Seed(), nil, []byte("didreg-session-token"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive session signing key: %w", err)
	}
	return &TokenCodec{signingKey: key}, nil
}

type claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Encode returns a bearer token string for sessionID.
func (c *TokenCodec) Encode(sessionID string) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{SessionID: sessionID})
	return tok.SignedString(c.signingKey)
}

// ErrMalformedToken is returned when a bearer token fails signature
// verification or does not carry a session id.
var ErrMalformedToken = errors.New("malformed session token")

// Decode recovers the session id from a bearer token, verifying its signature.
func (c *TokenCodec) Decode(token string) (string, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedToken
		}
		return c.signingKey, nil
	})
	if err != nil || !parsed.Valid || cl.SessionID == "" {
		return "", ErrMalformedToken
	}
	return cl.SessionID, nil
}

// Authenticator resolves a bearer token presented by a caller to the
// live Session it names, composing signature verification with the
// store's own liveness check.
type Authenticator struct {
	tokens *TokenCodec
	store  *Store
}

// NewAuthenticator builds an Authenticator over the given codec and store.
func NewAuthenticator(tokens *TokenCodec, store *Store) *Authenticator {
	return &Authenticator{tokens: tokens, store: store}
}

// Resolve decodes token and looks up the session it names. ok is false
// if the token is malformed/forged or the session does not exist or has
// aged out.
func (a *Authenticator) Resolve(token string) (Session, bool) {
	id, err := a.tokens.Decode(token)
	if err != nil {
		return Session{}, false
	}
	return a.store.Get(id)
}
