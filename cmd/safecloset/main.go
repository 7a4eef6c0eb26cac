// Copyright (C) 2025 safecloset
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

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configDir  string
	closetPath string
	envName    string
)

var rootCmd = &cobra.Command{
	Use:   "safecloset",
	Short: "SafeCloset - a nested, passphrase-gated secrets store",
	Long: `SafeCloset keeps secrets in an encrypted local file organized as a
tree of drawers. Every drawer is opened by its own passphrase, and a
wrong passphrase looks exactly like an empty drawer: there's no way to
tell from the outside how many drawers, if any, a closet holds.

Run safecloset with no arguments to open an interactive session against
the configured closet file.`,
	RunE: runInteractive,
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "config", "directory holding <env>.yaml/default.yaml/config.yaml")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment name, overrides SAFECLOSET_ENV")
	rootCmd.PersistentFlags().StringVar(&closetPath, "path", "", "path to the closet file, overrides config")

	// Subcommands registered in their own files:
	// - doctor.go: doctorCmd
	// - metrics.go: metricsCmd
}
