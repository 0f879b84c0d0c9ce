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
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentreg/didreg/config"
	"github.com/agentreg/didreg/internal/logger"
)

func TestLoadOrGenerateIdentityGeneratesWhenEmpty(t *testing.T) {
	id, err := loadOrGenerateIdentity("")
	require.NoError(t, err)
	assert.NotEmpty(t, id.DID)
}

func TestLoadOrGenerateIdentityLoadsHexSeedFile(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "server.key")
	body := fmt.Sprintf(`{"secret_key":%q}`, hex.EncodeToString(priv.Seed()))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	id, err := loadOrGenerateIdentity(path)
	require.NoError(t, err)
	assert.Equal(t, ed25519.PublicKey(priv.Public().(ed25519.PublicKey)), id.Pub)
}

func TestLoadOrGenerateIdentityRejectsMissingFile(t *testing.T) {
	_, err := loadOrGenerateIdentity(filepath.Join(t.TempDir(), "missing.key"))
	assert.Error(t, err)
}

func TestBuildLoggerHonorsLevel(t *testing.T) {
	cfg := &config.Config{Logging: &config.LoggingConfig{Level: "debug", Format: "json"}}
	log := buildLogger(cfg)
	assert.Equal(t, logger.DebugLevel, log.GetLevel())
}
