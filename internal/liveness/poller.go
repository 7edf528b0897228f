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
	"github.com/tomtom215/lancache-manager/internal/transport"
)

// DefaultPollInterval is how often the session list is checked.
const DefaultPollInterval = 30 * time.Second

// SessionLister lists the backend's sessions.
type SessionLister interface {
	ListSessions(ctx context.Context) ([]transport.SessionInfo, error)
}

// Authority is the state machine surface the poller needs.
// *session.Manager implements it.
type Authority interface {
	State() session.State
	DeviceID() string
	HandleSessionRevoked(deviceID, sessionType, source string)
}

var _ Authority = (*session.Manager)(nil)

// Poller verifies that an authenticated device is still listed by the backend.
type Poller struct {
	lister   SessionLister
	auth     Authority
	interval time.Duration
}

// NewPoller creates a Poller. A non-positive interval uses DefaultPollInterval.
func NewPoller(lister SessionLister, auth Authority, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{lister: lister, auth: auth, interval: interval}
}

// RunWithContext polls until ctx is canceled.
func (p *Poller) RunWithContext(ctx context.Context) error {
	tickLoop(ctx, p.interval, func(ctx context.Context) { p.Poll(ctx) })
	return ctx.Err()
}

// Poll runs a single check. It reports whether a revocation was detected.
func (p *Poller) Poll(ctx context.Context) bool {
	if !p.eligible() {
		return false
	}

	sessions, err := p.lister.ListSessions(ctx)
	if err != nil {
		// Transient failures never force a logout; 401s were already routed
		// to the unauthorized handler by the transport.
		logging.Debug().Err(err).Msg("[liveness] Session list unavailable")
		return false
	}

	// State may have moved while the request was in flight.
	if !p.eligible() {
		return false
	}

	deviceID := p.auth.DeviceID()
	if _, ok := transport.FindSession(sessions, deviceID, ""); ok {
		return false
	}

	logging.Warn().Str("device", logging.ShortDeviceID(deviceID)).Msg("[liveness] Device missing from session list")
	p.auth.HandleSessionRevoked(deviceID, transport.SessionTypeAuthenticated, session.SourcePoller)
	return true
}

func (p *Poller) eligible() bool {
	st := p.auth.State()
	return st.Mode == session.ModeAuthenticated && !st.Upgrading
}

// String implements fmt.Stringer for supervisor logs.
func (p *Poller) String() string { return "session-poller" }
