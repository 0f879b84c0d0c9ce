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
	"os"

	"github.com/spf13/cobra"

	"github.com/agentreg/didreg/client"
)

var lookupCmd = &cobra.Command{
	Use:     "lookup <server> <did>",
	Short:   "Look up the live endpoint registered for a DID",
	Example: `  didreg lookup https://registry.example did:key:z6Mk...`,
	Args:    cobra.ExactArgs(2),
	RunE:    runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	c := client.New(args[0], nil)
	resp, err := c.Lookup(args[1])
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	fmt.Println(resp.Endpoint)
	fmt.Fprintf(os.Stderr, "DID: %s\n", resp.DID)
	fmt.Fprintf(os.Stderr, "Status: %s\n", resp.Status)
	fmt.Fprintf(os.Stderr, "Expires: %d\n", resp.ExpiresAt)
	return nil
}
