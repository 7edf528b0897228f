// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	ephemeral  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "lancache-session",
		Short: "Dashboard session client for LANCache Manager",
		Long: `lancache-session manages this device's session with a LANCache Manager
backend: guest access, API-key registration, logout and key rotation,
plus a foreground watcher that reacts to revocations in real time.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "keep the session marker in memory only")

	rootCmd.AddCommand(
		statusCmd(flags),
		guestCmd(flags),
		loginCmd(flags),
		logoutCmd(flags),
		regenerateKeyCmd(flags),
		watchCmd(flags),
	)
	return rootCmd
}
