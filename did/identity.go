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

package did

import (
	"crypto/ed25519"

	"github.com/agentreg/didreg/crypto/keys"
)

// Identity couples a DID with the key pair that controls it.
type Identity struct {
	DID string
	Key ed25519.PrivateKey
	Pub ed25519.PublicKey
}

// GenerateIdentity creates a fresh Ed25519 identity and its derived DID.
func GenerateIdentity() (*Identity, error) {
	kp, err := keys.GenerateEd25519KeyPair()
	if err != nil {
		return nil, err
	}
	pub := kp.PublicKey().(ed25519.PublicKey)
	priv := kp.PrivateKey().(ed25519.PrivateKey)
	return &Identity{
		DID: FromPublicKey(pub),
		Key: priv,
		Pub: pub,
	}, nil
}

// IdentityFromSeed builds an Identity from a 32-byte Ed25519 seed, as
// loaded from an identity file.
func IdentityFromSeed(seed []byte) (*Identity, error) {
	kp, err := keys.NewEd25519KeyPairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	pub := kp.PublicKey().(ed25519.PublicKey)
	priv := kp.PrivateKey().(ed25519.PrivateKey)
	return &Identity{
		DID: FromPublicKey(pub),
		Key: priv,
		Pub: pub,
	}, nil
}

// Sign signs message with the identity's private key.
func (id *Identity) Sign(message []byte) []byte {
	return ed25519.Sign(id.Key, message)
}
