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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentreg/didreg/client"
)

var authIdentityFile string

var authCmd = &cobra.Command{
	Use:   "auth <server>",
	Short: "Run the handshake against a registry server and print the session token",
	Long: `auth runs the full hello/proof handshake against <server>, verifies the
server's counter-signature, and prints the resulting bearer token to stdout.
Pass that token as -s/--session (or export it as SESSION) to register,
deregister, and other authenticated subcommands.`,
	Example: `  didreg auth https://registry.example -i alice.key`,
	Args:    cobra.ExactArgs(1),
	RunE:    runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().StringVarP(&authIdentityFile, "identity", "i", "", "path to the Ed25519 identity seed (hex or base64)")
}

func runAuth(cmd *cobra.Command, args []string) error {
	identity, err := loadIdentity(authIdentityFile)
	if err != nil {
		return err
	}

	c := client.New(args[0], identity)
	if err := c.Authenticate(); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	fmt.Println(c.SessionID())
	return nil
}
