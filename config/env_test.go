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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVarsUsesDefaultWhenUnset(t *testing.T) {
	t.Setenv("DIDREG_TEST_UNSET_VAR", "")
	result := SubstituteEnvVars("${DIDREG_TEST_UNSET_VAR:fallback}")
	assert.Equal(t, "fallback", result)
}

func TestSubstituteEnvVarsUsesSetValue(t *testing.T) {
	t.Setenv("DIDREG_TEST_VAR", "actual")
	result := SubstituteEnvVars("${DIDREG_TEST_VAR:fallback}")
	assert.Equal(t, "actual", result)
}

func TestSubstituteEnvVarsInConfigReplacesServerHost(t *testing.T) {
	t.Setenv("DIDREG_TEST_HOST", "10.0.0.1")
	cfg := &Config{Server: &ServerConfig{Host: "${DIDREG_TEST_HOST}"}}
	SubstituteEnvVarsInConfig(cfg)
	assert.Equal(t, "10.0.0.1", cfg.Server.Host)
}

func TestGetEnvironmentDefaultsToDevelopment(t *testing.T) {
	t.Setenv("DIDREG_ENV", "")
	t.Setenv("ENVIRONMENT", "")
	assert.Equal(t, "development", GetEnvironment())
}

func TestGetEnvironmentPrefersDidregEnv(t *testing.T) {
	t.Setenv("DIDREG_ENV", "Production")
	assert.Equal(t, "production", GetEnvironment())
	assert.True(t, IsProduction())
}
