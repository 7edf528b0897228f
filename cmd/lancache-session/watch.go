// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/lancache-manager/internal/api"
	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/liveness"
	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/push"
	"github.com/tomtom215/lancache-manager/internal/supervisor"
	"github.com/tomtom215/lancache-manager/internal/supervisor/services"
)

func watchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the session checked in the foreground and print auth events",
		RunE: withApp(flags, func(cmd *cobra.Command, a *app) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, a, cmd.OutOrStdout())
		}),
	}
}

// buildTree adds every background service the configuration enables.
func buildTree(a *app) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}

	poller := liveness.NewPoller(a.client, a.manager, a.cfg.Session.PollInterval)
	tree.AddSessionService(services.NewRunnerService(poller.String(), poller))

	heartbeat := liveness.NewHeartbeat(a.client, a.manager, a.cfg.Session.HeartbeatInterval)
	tree.AddSessionService(services.NewRunnerService(heartbeat.String(), heartbeat))

	if a.cfg.Push.Enabled {
		pushClient, err := push.NewClient(push.Config{
			URL:      a.cfg.PushURL(),
			DeviceID: a.manager.DeviceID(),
		}, a.manager)
		if err != nil {
			return nil, fmt.Errorf("create push client: %w", err)
		}
		tree.AddSessionService(services.NewRunnerService(pushClient.String(), pushClient))
	}

	if a.cfg.Status.Enabled {
		h, err := api.NewHandler(a.manager, a.bus, a.cfg.Status.CORSOrigins)
		if err != nil {
			return nil, fmt.Errorf("create status handler: %w", err)
		}
		srv := api.NewServer(a.cfg.Status, h)
		tree.AddAPIService(services.NewHTTPServerService("status-server", srv, 5*time.Second))
	}

	return tree, nil
}

// runWatch checks once, then supervises the background services and prints
// events until ctx is canceled.
func runWatch(ctx context.Context, a *app, out io.Writer) error {
	stream, err := a.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to events: %w", err)
	}

	unsubscribe := a.manager.OnGuestExpired(func(reason string) {
		fmt.Fprintf(out, "Guest session expired: %s\n", reason)
	})
	defer unsubscribe()

	res := a.manager.CheckAuth(ctx)
	fmt.Fprintf(out, "Watching device %s (mode: %s)\n", a.manager.DeviceID(), res.AuthMode)

	tree, err := buildTree(a)
	if err != nil {
		return err
	}

	logging.Info().Msg("[main] Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for {
		select {
		case e, ok := <-stream:
			if !ok {
				stream = nil
				continue
			}
			printEvent(out, e)

		case err := <-errCh:
			if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
				for _, svc := range unstopped {
					logging.Warn().Str("service", svc.Name).Msg("[main] Service failed to stop")
				}
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("supervisor tree: %w", err)
			}
			logging.Info().Msg("[main] Stopped")
			return nil
		}
	}
}

func printEvent(out io.Writer, e events.Event) {
	ts := e.At.Local().Format(time.TimeOnly)
	switch e.Type {
	case events.TypeAuthStateChanged:
		fmt.Fprintf(out, "%s  mode -> %s (%s)\n", ts, e.Mode, e.Reason)
	case events.TypeSessionRevoked:
		fmt.Fprintf(out, "%s  %s session revoked (via %s)\n", ts, e.SessionType, e.Source)
	case events.TypeSessionsCleared:
		fmt.Fprintf(out, "%s  all sessions cleared (via %s)\n", ts, e.Source)
	case events.TypeGuestSessionCreated:
		fmt.Fprintf(out, "%s  guest session created\n", ts)
	default:
		fmt.Fprintf(out, "%s  %s\n", ts, e.Type)
	}
}
