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

// Command didreg-server runs the DID-based agent discovery registry.
package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentreg/didreg/challenge"
	"github.com/agentreg/didreg/config"
	"github.com/agentreg/didreg/did"
	"github.com/agentreg/didreg/httpapi"
	"github.com/agentreg/didreg/internal/logger"
	"github.com/agentreg/didreg/internal/metrics"
	"github.com/agentreg/didreg/registry"
	"github.com/agentreg/didreg/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := buildLogger(cfg)

	identity, err := loadOrGenerateIdentity(cfg.Identity.KeyFile)
	if err != nil {
		log.Error("failed to establish server identity", logger.Error(err))
		os.Exit(1)
	}
	log.Info("server identity established", logger.String("did", identity.DID))

	pending := challenge.NewTable()
	sessions := session.NewStore()
	reg := registry.New()

	tokens, err := session.NewTokenCodec(identity.Key)
	if err != nil {
		log.Error("failed to build session token codec", logger.Error(err))
		os.Exit(1)
	}

	var registerer prometheus.Registerer = prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		registerer = prometheus.DefaultRegisterer
	}
	collector := metrics.NewCollector(registerer)

	server := httpapi.New(identity, pending, sessions, tokens, reg, collector, log, cfg.Handshake.ChallengeTTL, cfg.Handshake.SessionTTL)

	pending.StartCleanup(cfg.Handshake.ChallengeTTL)
	sessions.StartCleanup(cfg.Handshake.SessionTTL)
	reg.StartCleanup(cfg.Registry.CleanupInterval)
	defer pending.StopCleanup()
	defer sessions.StopCleanup()
	defer reg.StopCleanup()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Listen(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("http server failed", logger.Error(err))
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func buildLogger(cfg *config.Config) logger.Logger {
	level := logger.InfoLevel
	switch strings.ToUpper(cfg.Logging.Level) {
	case "DEBUG":
		level = logger.DebugLevel
	case "WARN":
		level = logger.WarnLevel
	case "ERROR":
		level = logger.ErrorLevel
	}

	out := os.Stdout
	l := logger.NewLogger(out, level)
	l.SetPrettyPrint(cfg.Logging.Format != "json")
	return l
}

// storedIdentity is the on-disk identity file shape: a JSON envelope
// carrying the Ed25519 seed as either hex or base64.
type storedIdentity struct {
	SecretKey string `json:"secret_key"`
}

// loadOrGenerateIdentity reads a JSON identity file
// ({"secret_key": "<hex-or-base64>"}) from keyFile, or generates and
// discards an ephemeral identity if keyFile is empty. A generated
// identity only makes sense for development: every restart changes the
// server's DID and invalidates outstanding sessions.
func loadOrGenerateIdentity(keyFile string) (*did.Identity, error) {
	if keyFile == "" {
		return did.GenerateIdentity()
	}

	raw, err := os.ReadFile(keyFile)
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
