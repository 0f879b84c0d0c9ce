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

package crypto

import (
	"crypto"
	"errors"
)

// KeyType represents the type of cryptographic key.
type KeyType string

const (
	KeyTypeEd25519 KeyType = "Ed25519"
)

// KeyPair represents a cryptographic key pair capable of signing and
// verifying byte strings.
type KeyPair interface {
	// PublicKey returns the public key.
	PublicKey() crypto.PublicKey

	// PrivateKey returns the private key.
	PrivateKey() crypto.PrivateKey

	// Type returns the key type.
	Type() KeyType

	// Sign signs the given message.
	Sign(message []byte) ([]byte, error)

	// Verify verifies the signature against the given message.
	Verify(message, signature []byte) error

	// ID returns a unique identifier for this key pair.
	ID() string
}

// Common errors.
var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrInvalidKeyType   = errors.New("invalid key type")
	ErrInvalidSignature = errors.New("invalid signature")
)
