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

package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/agentreg/didreg/did"
)

// storedIdentity is the on-disk identity file shape: a JSON envelope
// carrying the Ed25519 seed as either hex or base64.
type storedIdentity struct {
	SecretKey string `json:"secret_key"`
}

// loadIdentity reads a JSON identity file ({"secret_key": "<hex-or-base64>"})
// from path and derives the DID it controls.
func loadIdentity(path string) (*did.Identity, error) {
	if path == "" {
		return nil, errors.New("identity file is required (-i/--identity)")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity file: %w", err)
	}

	var stored storedIdentity
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("parse identity file: %w", err)
	}
	if stored.SecretKey == "" {
		return nil, errors.New("identity file is missing \"secret_key\"")
	}

	seed, err := decodeSeed(stored.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("decode identity seed: %w", err)
	}
	return did.IdentityFromSeed(seed)
}

func decodeSeed(s string) ([]byte, error) {
	if seed, err := hex.DecodeString(s); err == nil {
		return seed, nil
	}
	if seed, err := base64.StdEncoding.DecodeString(s); err == nil {
		return seed, nil
	}
	if seed, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return seed, nil
	}
	return nil, errors.New("seed is neither valid hex nor base64")
}

// resolveSession returns flagValue if set, otherwise the SESSION
// environment variable.
func resolveSession(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("SESSION")
}
