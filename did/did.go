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

// Package did implements the external DID & Key interface: parsing a
// did:key identifier, deriving one from an Ed25519 public key, and
// signing/verifying byte strings against it. The registry never
// interprets DID structure beyond string equality; this package is the
// one place that does.
package did

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	// Prefix is the literal scheme prefix every DID in this system carries.
	Prefix = "did:key:"

	// multicodecByte0 and multicodecByte1 form the multicodec varint
	// prefix for an Ed25519 public key (0xed, 0x01) used by the did:key method.
	multicodecByte0 = 0xed
	multicodecByte1 = 0x01
)

// ErrMalformedDID is returned when a string does not parse as a did:key identifier.
var ErrMalformedDID = errors.New("malformed did:key identifier")

// FromPublicKey derives the did:key identifier for an Ed25519 public key.
func FromPublicKey(pub ed25519.PublicKey) string {
	prefixed := make([]byte, 0, len(pub)+2)
	prefixed = append(prefixed, multicodecByte0, multicodecByte1)
	prefixed = append(prefixed, pub...)
	return Prefix + "z" + base58.Encode(prefixed)
}

// Parse decodes a did:key identifier into its raw Ed25519 public key.
func Parse(did string) (ed25519.PublicKey, error) {
	if !strings.HasPrefix(did, Prefix) {
		return nil, ErrMalformedDID
	}
	rest := strings.TrimPrefix(did, Prefix)
	if !strings.HasPrefix(rest, "z") {
		return nil, ErrMalformedDID
	}
	decoded, err := base58.Decode(rest[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDID, err)
	}
	if len(decoded) != ed25519.PublicKeySize+2 {
		return nil, ErrMalformedDID
	}
	if decoded[0] != multicodecByte0 || decoded[1] != multicodecByte1 {
		return nil, ErrMalformedDID
	}
	return ed25519.PublicKey(decoded[2:]), nil
}

// Valid reports whether s parses as a well-formed did:key identifier.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Verify checks sig over message using the public key encoded in did.
func Verify(did string, message, sig []byte) error {
	pub, err := Parse(did)
	if err != nil {
		return err
	}
	if !ed25519.Verify(pub, message, sig) {
		return errInvalidSignature
	}
	return nil
}

var errInvalidSignature = errors.New("invalid signature")
