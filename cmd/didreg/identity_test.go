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
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIdentityAcceptsHexSeed(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	seed := priv.Seed()

	path := filepath.Join(t.TempDir(), "hex.key")
	body := fmt.Sprintf(`{"secret_key":%q}`, hex.EncodeToString(seed))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	id, err := loadIdentity(path)
	require.NoError(t, err)
	assert.NotEmpty(t, id.DID)
}

func TestLoadIdentityAcceptsBase64Seed(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	seed := priv.Seed()

	path := filepath.Join(t.TempDir(), "b64.key")
	body := fmt.Sprintf(`{"secret_key":%q}`, base64.StdEncoding.EncodeToString(seed))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	id, err := loadIdentity(path)
	require.NoError(t, err)
	assert.NotEmpty(t, id.DID)
}

func TestLoadIdentityRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.key")
	require.NoError(t, os.WriteFile(path, []byte("not a seed"), 0o600))

	_, err := loadIdentity(path)
	assert.Error(t, err)
}

func TestLoadIdentityRequiresPath(t *testing.T) {
	_, err := loadIdentity("")
	assert.Error(t, err)
}

func TestResolveSessionPrefersFlag(t *testing.T) {
	t.Setenv("SESSION", "from-env")
	assert.Equal(t, "from-flag", resolveSession("from-flag"))
	assert.Equal(t, "from-env", resolveSession(""))
}
