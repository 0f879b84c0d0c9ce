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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentreg/didreg/client"
)

var (
	registerEndpoint string
	registerTTL      time.Duration
	registerSession  string
)

var registerCmd = &cobra.Command{
	Use:   "register <server>",
	Short: "Bind the authenticated DID to an endpoint",
	Example: `  didreg register https://registry.example -e https://alice.example -s $SESSION
  didreg register https://registry.example -e https://alice.example -t 1h -s $SESSION`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&registerEndpoint, "endpoint", "e", "", "endpoint URL to advertise for this DID (required)")
	registerCmd.Flags().DurationVarP(&registerTTL, "ttl", "t", 0, "registration lifetime (default: server's default TTL)")
	registerCmd.Flags().StringVarP(&registerSession, "session", "s", "", "bearer session token (default: $SESSION)")
}

func runRegister(cmd *cobra.Command, args []string) error {
	if registerEndpoint == "" {
		return errors.New("-e/--endpoint is required")
	}
	token := resolveSession(registerSession)
	if token == "" {
		return errors.New("a session token is required (-s/--session or $SESSION)")
	}

	c := client.WithSession(args[0], token)
	resp, err := c.Register(registerEndpoint, registerTTL)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Expires: %d\n", resp.ExpiresAt)
	fmt.Println(resp.DID)
	return nil
}
