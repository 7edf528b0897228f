// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package liveness

import (
	"context"
	"time"

	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/session"
)

// DefaultHeartbeatInterval is how often last-seen is refreshed.
const DefaultHeartbeatInterval = 60 * time.Second

// Beater sends one heartbeat.
type Beater interface {
	Heartbeat(ctx context.Context) error
}

// StateSource reports the current auth state.
type StateSource interface {
	State() session.State
}

// Heartbeat keeps the session's last-seen timestamp fresh.
type Heartbeat struct {
	beater   Beater
	state    StateSource
	interval time.Duration
}

// NewHeartbeat creates a Heartbeat. A non-positive interval uses
// DefaultHeartbeatInterval.
func NewHeartbeat(beater Beater, state StateSource, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Heartbeat{beater: beater, state: state, interval: interval}
}

// RunWithContext sends heartbeats until ctx is canceled.
func (h *Heartbeat) RunWithContext(ctx context.Context) error {
	tickLoop(ctx, h.interval, func(ctx context.Context) { h.Beat(ctx) })
	return ctx.Err()
}

// Beat sends one heartbeat if the state calls for it. Errors are logged only.
func (h *Heartbeat) Beat(ctx context.Context) bool {
	st := h.state.State()
	if st.Upgrading || (st.Mode != session.ModeAuthenticated && st.Mode != session.ModeGuest) {
		return false
	}
	if err := h.beater.Heartbeat(ctx); err != nil {
		logging.Debug().Err(err).Msg("[liveness] Heartbeat failed")
		return false
	}
	return true
}

// String implements fmt.Stringer for supervisor logs.
func (h *Heartbeat) String() string { return "session-heartbeat" }
