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

// Package config loads the registry server's YAML configuration, with
// ${VAR} substitution and DIDREG_-prefixed environment overrides
// applied on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the registry server's complete configuration.
type Config struct {
	Environment string          `yaml:"environment" json:"environment"`
	Server      *ServerConfig   `yaml:"server" json:"server"`
	Identity    *IdentityConfig `yaml:"identity" json:"identity"`
	Handshake   *HandshakeConfig `yaml:"handshake" json:"handshake"`
	Registry    *RegistryConfig `yaml:"registry" json:"registry"`
	Storage     *StorageConfig  `yaml:"storage" json:"storage"`
	Logging     *LoggingConfig  `yaml:"logging" json:"logging"`
	Metrics     *MetricsConfig  `yaml:"metrics" json:"metrics"`
	Health      *HealthConfig   `yaml:"health" json:"health"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// IdentityConfig locates the server's own signing identity.
type IdentityConfig struct {
	// KeyFile is the path to a JSON identity file whose "secret_key"
	// holds a hex- or base64-encoded Ed25519 seed. If empty, a fresh
	// identity is generated at startup and discarded on exit.
	KeyFile string `yaml:"key_file" json:"key_file"`
}

// HandshakeConfig tunes the challenge/session lifetimes.
type HandshakeConfig struct {
	ChallengeTTL time.Duration `yaml:"challenge_ttl" json:"challenge_ttl"`
	SessionTTL   time.Duration `yaml:"session_ttl" json:"session_ttl"`
}

// RegistryConfig tunes the DID-to-endpoint table.
type RegistryConfig struct {
	DefaultTTL      time.Duration `yaml:"default_ttl" json:"default_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval"`
}

// StorageConfig names a persistence backend for the registry and
// session stores. Load validates it; cmd/didreg-server does not read
// it and always serves from its in-memory tables.
type StorageConfig struct {
	// Backend is "memory" (default) or "postgres".
	Backend    string `yaml:"backend" json:"backend"`
	PostgresDSN string `yaml:"postgres_dsn" json:"postgres_dsn"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// HealthConfig represents health check configuration
type HealthConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// LoadFromFile loads configuration from a YAML (or JSON) file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)
	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing JSON or YAML by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults fills in zero-valued fields with the server's defaults.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Server == nil {
		cfg.Server = &ServerConfig{}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8443
	}

	if cfg.Identity == nil {
		cfg.Identity = &IdentityConfig{}
	}

	if cfg.Handshake == nil {
		cfg.Handshake = &HandshakeConfig{}
	}
	if cfg.Handshake.ChallengeTTL == 0 {
		cfg.Handshake.ChallengeTTL = 60 * time.Second
	}
	if cfg.Handshake.SessionTTL == 0 {
		cfg.Handshake.SessionTTL = 300 * time.Second
	}

	if cfg.Registry == nil {
		cfg.Registry = &RegistryConfig{}
	}
	if cfg.Registry.DefaultTTL == 0 {
		cfg.Registry.DefaultTTL = 3600 * time.Second
	}
	if cfg.Registry.CleanupInterval == 0 {
		cfg.Registry.CleanupInterval = 30 * time.Second
	}

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}

	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{Enabled: true}
	}
	if cfg.Health == nil {
		cfg.Health = &HealthConfig{Enabled: true}
	}
}

// Addr returns the "host:port" listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
