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

	"github.com/spf13/cobra"

	"github.com/agentreg/didreg/client"
)

var deregisterSession string

var deregisterCmd = &cobra.Command{
	Use:     "deregister <server>",
	Short:   "Remove the authenticated DID's registry row",
	Example: `  didreg deregister https://registry.example -s $SESSION`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDeregister,
}

func init() {
	rootCmd.AddCommand(deregisterCmd)
	deregisterCmd.Flags().StringVarP(&deregisterSession, "session", "s", "", "bearer session token (default: $SESSION)")
}

func runDeregister(cmd *cobra.Command, args []string) error {
	token := resolveSession(deregisterSession)
	if token == "" {
		return errors.New("a session token is required (-s/--session or $SESSION)")
	}

	c := client.WithSession(args[0], token)
	resp, err := c.Deregister()
	if err != nil {
		return fmt.Errorf("deregister: %w", err)
	}
	if !resp.OK {
		return errors.New("no registration existed for this session's DID")
	}

	fmt.Fprintln(os.Stderr, "deregistered")
	return nil
}
