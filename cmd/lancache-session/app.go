// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package main

import (
	"errors"
	"fmt"

	"github.com/tomtom215/lancache-manager/internal/config"
	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/identity"
	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/session"
	"github.com/tomtom215/lancache-manager/internal/store"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

// markerStore is a session.MarkerStore that must be closed.
type markerStore interface {
	session.MarkerStore
	Close() error
}

// app is the wired client shared by every command.
type app struct {
	cfg      *config.Config
	identity *identity.Provider
	client   *transport.Client
	bus      *events.Bus
	markers  markerStore
	manager  *session.Manager
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newApp loads configuration and wires the session stack.
func newApp(flags *rootFlags) (*app, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ident := identity.NewProvider(identity.EnvSource{Client: "lancache-session/" + version}, cfg.Identity.DeviceName)

	client, err := transport.NewClient(&cfg.Backend, ident.DeviceID())
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}

	var markers markerStore
	if flags.ephemeral || cfg.Session.StateDir == "" {
		markers = store.NewMemoryMarkerStore()
	} else {
		badgerStore, err := store.OpenBadgerMarkerStore(cfg.Session.StateDir)
		if err != nil {
			return nil, fmt.Errorf("open session marker store: %w", err)
		}
		markers = badgerStore
	}

	bus := events.NewBus(events.Config{DedupWindow: cfg.Session.DedupWindow})

	manager, err := session.NewManager(session.Options{
		Backend:      client,
		Identity:     ident,
		Publisher:    bus,
		Markers:      markers,
		SettleDelay:  cfg.Session.SettleDelay,
		CheckTimeout: cfg.Session.CheckTimeout,
	})
	if err != nil {
		_ = bus.Close()
		_ = markers.Close()
		return nil, fmt.Errorf("create session manager: %w", err)
	}
	manager.BindTransport(client)

	logging.Debug().
		Str("backend", cfg.Backend.URL).
		Str("device", logging.ShortDeviceID(ident.DeviceID())).
		Bool("durable_marker", !flags.ephemeral && cfg.Session.StateDir != "").
		Msg("[main] Session client wired")

	return &app{
		cfg:      cfg,
		identity: ident,
		client:   client,
		bus:      bus,
		markers:  markers,
		manager:  manager,
	}, nil
}

// Close releases the bus and the marker store.
func (a *app) Close() error {
	return errors.Join(a.bus.Close(), a.markers.Close())
}
