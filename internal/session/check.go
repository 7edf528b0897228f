// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package session

import (
	"context"

	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

// Reasons attached to state-changed notifications.
const (
	reasonServerState     = "server state"
	reasonLocalCleared    = "local session cleared"
	reasonUnauthorized    = "unauthorized"
	reasonCredentialGone  = "credential lost"
	reasonLogout          = "logout"
	reasonKeyRegenerated  = "api key regenerated"
	reasonGuestStarted    = "guest session started"
	reasonGuestExited     = "guest mode exited"
	reasonRegistered      = "device registered"
	reasonSessionsCleared = "sessions cleared"
	reasonGuestExpired    = "Guest session expired"
)

// CheckAuth queries the backend for the current auth truth and reconciles
// local state with it. It never fails: network errors degrade to an
// unauthenticated-leaning result and still mark the state as checked.
func (m *Manager) CheckAuth(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, m.checkTimeout)
	defer cancel()

	m.mu.Lock()
	epoch := m.epoch
	localMode := m.mode
	m.mu.Unlock()

	if localMode == ModeGuest {
		return m.checkGuest(ctx, epoch)
	}

	status, err := m.backend.AuthStatus(ctx)
	if err != nil {
		return m.checkFailed(err)
	}

	mode := resolveMode(status)
	forced := false
	if mode == ModeAuthenticated && !m.hasCredential() {
		active, merr := m.markers.SessionActive(ctx, m.identity.DeviceID())
		switch {
		case merr != nil:
			logging.Warn().Err(merr).Msg("[session] Session marker unavailable, trusting server")
		case !active:
			// Local state was wiped independently of the server.
			forced = true
			mode = ModeUnauthenticated
		}
	}

	m.mu.Lock()
	if m.epoch != epoch || m.upgrading {
		m.checked = true
		current := m.stateLocked()
		m.mu.Unlock()
		logging.Debug().Str("mode", string(current.Mode)).Msg("[session] Discarding stale auth check")
		return buildResult(status, current.Mode)
	}
	from := m.mode
	changed := from != mode
	if changed {
		m.transitionLocked(mode)
	}
	m.checked = true
	m.mu.Unlock()

	if changed && mode == ModeExpired {
		m.notifyGuestExpired(reasonGuestExpired)
	}
	switch {
	case forced:
		logging.Warn().Msg("[session] Server reports authenticated but local session marker is missing, forcing re-authentication")
		m.clearMarker()
		m.publishStateChanged(mode, reasonLocalCleared)
	case changed:
		if from == ModeAuthenticated {
			m.clearMarker()
		}
		m.publishStateChanged(mode, reasonServerState)
	}

	return buildResult(status, mode)
}

// checkGuest keeps the local guest decision but still refreshes auxiliary
// fields. A server-reported expiry is honoured unless a newer transition or
// an upgrade landed while the request was outstanding.
func (m *Manager) checkGuest(ctx context.Context, epoch uint64) CheckResult {
	status, err := m.backend.AuthStatus(ctx)

	m.mu.Lock()
	if m.epoch != epoch || m.upgrading {
		m.checked = true
		current := m.mode
		m.mu.Unlock()
		logging.Debug().Str("mode", string(current)).Msg("[session] Discarding stale guest auth check")
		if err != nil {
			return CheckResult{RequiresAuth: current != ModeAuthenticated, IsAuthenticated: current == ModeAuthenticated, AuthMode: current}
		}
		return buildResult(status, current)
	}
	m.mu.Unlock()

	if err != nil {
		if transport.IsUnauthorized(err) {
			return m.checkFailed(err)
		}
		m.markChecked()
		logging.Debug().Err(err).Msg("[session] Guest auth check failed, keeping local state")
		return CheckResult{
			RequiresAuth: true,
			AuthMode:     ModeGuest,
			Error:        transport.MessageOf(err),
		}
	}

	if Mode(status.AuthMode) == ModeExpired {
		m.expireGuest(reasonGuestExpired)
	}
	m.markChecked()
	return buildResult(status, m.Mode())
}

// checkFailed handles a failed status call outside guest mode.
func (m *Manager) checkFailed(err error) CheckResult {
	if transport.IsUnauthorized(err) {
		m.HandleAPIError(err)
	} else {
		logging.Warn().Err(err).Msg("[session] Auth check failed")
	}
	m.markChecked()

	mode := m.Mode()
	if mode == ModeAuthenticated || mode == ModeGuest {
		// Network failure: the mode is left alone but reported as unauthenticated.
		mode = ModeUnauthenticated
	}
	return CheckResult{
		RequiresAuth: true,
		AuthMode:     mode,
		Error:        transport.MessageOf(err),
	}
}

func (m *Manager) markChecked() {
	m.mu.Lock()
	m.checked = true
	m.mu.Unlock()
}

func (m *Manager) hasCredential() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiKey != ""
}

// resolveMode maps a status body to a Mode: an explicit authMode wins,
// otherwise isAuthenticated decides.
func resolveMode(s *transport.AuthStatus) Mode {
	if mode, ok := ParseMode(s.AuthMode); ok {
		return mode
	}
	if s.IsAuthenticated {
		return ModeAuthenticated
	}
	return ModeUnauthenticated
}

func buildResult(s *transport.AuthStatus, mode Mode) CheckResult {
	return CheckResult{
		RequiresAuth:         s.RequiresAuth,
		IsAuthenticated:      mode == ModeAuthenticated,
		AuthMode:             mode,
		AuthenticationType:   s.AuthenticationType,
		GuestTimeRemaining:   s.GuestTimeRemaining,
		HasData:              s.HasData,
		HasEverBeenSetup:     s.HasEverBeenSetup,
		HasBeenInitialized:   s.HasBeenInitialized,
		HasDataLoaded:        s.HasDataLoaded,
		PrefillEnabled:       s.PrefillEnabled,
		PrefillTimeRemaining: s.PrefillTimeRemaining,
	}
}
