// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/lancache-manager/internal/session"
)

// errActionFailed is returned when the backend rejected an action; the
// message has already been printed.
var errActionFailed = errors.New("action failed")

// withApp wires the client for the duration of run.
func withApp(flags *rootFlags, run func(cmd *cobra.Command, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(flags)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()
		return run(cmd, a)
	}
}

func statusCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check this device's auth state with the backend",
		RunE: withApp(flags, func(cmd *cobra.Command, a *app) error {
			res := a.manager.CheckAuth(cmd.Context())
			out := cmd.OutOrStdout()

			if asJSON {
				return writeJSON(out, struct {
					DeviceID string `json:"deviceId"`
					session.CheckResult
				}{a.manager.DeviceID(), res})
			}

			fmt.Fprintf(out, "Device:        %s\n", a.manager.DeviceID())
			fmt.Fprintf(out, "Mode:          %s\n", res.AuthMode)
			fmt.Fprintf(out, "Requires auth: %t\n", res.RequiresAuth)
			if res.GuestTimeRemaining != nil {
				fmt.Fprintf(out, "Guest time:    %d min\n", *res.GuestTimeRemaining)
			}
			if res.PrefillEnabled && res.PrefillTimeRemaining != nil {
				fmt.Fprintf(out, "Prefill time:  %d min\n", *res.PrefillTimeRemaining)
			}
			if res.Error != "" {
				fmt.Fprintf(out, "Error:         %s\n", res.Error)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func guestCmd(flags *rootFlags) *cobra.Command {
	var exit bool

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Start a guest session for this device, or leave guest mode with --exit",
		RunE: withApp(flags, func(cmd *cobra.Command, a *app) error {
			out := cmd.OutOrStdout()
			if exit {
				return exitGuest(cmd, a)
			}
			if err := a.manager.StartGuestMode(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Guest session started")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&exit, "exit", false, "abandon guest (or expired guest) access without logging in")
	return cmd
}

// exitGuest adopts the server's view first so a fresh process knows it is a guest.
func exitGuest(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	a.manager.CheckAuth(cmd.Context())
	if !a.manager.IsGuestModeActive() && a.manager.Mode() != session.ModeExpired {
		fmt.Fprintf(out, "Not in guest mode (mode: %s)\n", a.manager.Mode())
		return errActionFailed
	}
	a.manager.ExitGuestMode()
	fmt.Fprintf(out, "Guest mode exited (mode: %s)\n", a.manager.Mode())
	return nil
}

func loginCmd(flags *rootFlags) *cobra.Command {
	var apiKey, deviceName string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Register this device with an API key",
		RunE: withApp(flags, func(cmd *cobra.Command, a *app) error {
			return printResult(cmd.OutOrStdout(), a.manager.Register(cmd.Context(), apiKey, deviceName))
		}),
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key issued by the LANCache Manager admin")
	cmd.Flags().StringVar(&deviceName, "device-name", "", "friendly name shown in the admin session list")
	_ = cmd.MarkFlagRequired("api-key")
	return cmd
}

func logoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End this device's authenticated session",
		RunE: withApp(flags, func(cmd *cobra.Command, a *app) error {
			// The manager must know it is authenticated before it revokes.
			a.manager.CheckAuth(cmd.Context())
			return printResult(cmd.OutOrStdout(), a.manager.Logout(cmd.Context()))
		}),
	}
}

func regenerateKeyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate-key",
		Short: "Rotate the backend API key (signs out every device)",
		RunE: withApp(flags, func(cmd *cobra.Command, a *app) error {
			a.manager.CheckAuth(cmd.Context())
			return printResult(cmd.OutOrStdout(), a.manager.RegenerateAPIKey(cmd.Context()))
		}),
	}
}

func printResult(out io.Writer, res session.ActionResult) error {
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	if res.Warning != "" {
		fmt.Fprintf(out, "Warning: %s\n", res.Warning)
	}
	if !res.Success {
		return errActionFailed
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
