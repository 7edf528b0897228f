// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package session

import (
	"errors"
	"time"

	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/metrics"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

// Detection sources for revocations.
const (
	SourcePoller = "poller"
	SourcePush   = "push"
	SourceAPI    = "api"
)

const guestRevokedMessage = "Your guest session was revoked. Please log in or start a new guest session."

// HandleUnauthorized is the choke point for every 401. It is idempotent:
//   - no-op while an upgrade is in flight
//   - no-op when already unauthenticated without a credential
//   - otherwise drops the credential, moves to unauthenticated and notifies
func (m *Manager) HandleUnauthorized() {
	m.handleUnauthorized()
}

func (m *Manager) handleUnauthorized() bool {
	m.mu.Lock()
	if m.upgrading {
		m.mu.Unlock()
		metrics.UnauthorizedHandled.WithLabelValues("ignored_upgrading").Inc()
		logging.Debug().Msg("[session] Ignoring unauthorized during upgrade")
		return false
	}
	if m.mode == ModeUnauthenticated && m.apiKey == "" {
		m.mu.Unlock()
		metrics.UnauthorizedHandled.WithLabelValues("ignored_idle").Inc()
		return false
	}
	zombie := m.mode == ModeAuthenticated && m.apiKey == ""
	m.transitionLocked(ModeUnauthenticated)
	m.mu.Unlock()

	reason := reasonUnauthorized
	if zombie {
		// Backend restarted and forgot the credential we never held.
		reason = reasonCredentialGone
		metrics.UnauthorizedHandled.WithLabelValues("zombie_cleared").Inc()
		logging.Warn().Msg("[session] Authenticated without credential, forcing re-authentication")
	} else {
		metrics.UnauthorizedHandled.WithLabelValues("cleared").Inc()
		logging.Info().Msg("[session] Credential rejected, now unauthenticated")
	}

	m.clearMarker()
	m.publishStateChanged(ModeUnauthenticated, reason)
	return true
}

// HandleAPIError routes an error from any API caller. A revoked guest session
// expires guest mode instead of taking the generic unauthorized path.
func (m *Manager) HandleAPIError(err error) {
	switch {
	case errors.Is(err, transport.ErrGuestSessionRevoked):
		m.expireGuest(guestRevokedMessage)
	case errors.Is(err, transport.ErrUnauthorized):
		m.handleUnauthorized()
	}
}

// HandleSessionRevoked folds a revocation naming deviceID into the state
// machine. Revocations of other devices are ignored. A guest revocation
// expires guest mode; any other revocation de-authenticates. A
// user-session-revoked event is published only when the state changed.
func (m *Manager) HandleSessionRevoked(deviceID, sessionType, source string) {
	if deviceID != m.identity.DeviceID() {
		logging.Debug().Str("device", logging.ShortDeviceID(deviceID)).Msg("[session] Ignoring revocation for another device")
		return
	}

	m.mu.Lock()
	mode, upgrading := m.mode, m.upgrading
	m.mu.Unlock()
	if upgrading {
		return
	}

	var changed bool
	if sessionType == transport.SessionTypeGuest {
		// A guest revocation after an upgrade refers to the superseded session.
		if mode != ModeGuest {
			return
		}
		changed = m.expireGuest(guestRevokedMessage)
	} else {
		if mode != ModeAuthenticated {
			return
		}
		sessionType = transport.SessionTypeAuthenticated
		changed = m.handleUnauthorized()
	}
	if !changed {
		return
	}

	metrics.Revocations.WithLabelValues(source, sessionType).Inc()
	logging.Warn().Str("source", source).Str("session_type", sessionType).Msg("[session] Session revoked")
	m.publisher.Publish(events.Event{
		Type:        events.TypeSessionRevoked,
		DeviceID:    deviceID,
		SessionType: sessionType,
		Source:      source,
		At:          time.Now(),
	})
}

// HandleSessionsCleared applies a bulk revocation of all sessions.
func (m *Manager) HandleSessionsCleared(source string) {
	m.mu.Lock()
	mode, upgrading := m.mode, m.upgrading
	m.mu.Unlock()
	if upgrading {
		return
	}

	var changed bool
	switch mode {
	case ModeGuest:
		changed = m.expireGuest(guestRevokedMessage)
	case ModeAuthenticated:
		changed = m.handleUnauthorized()
	}
	if !changed {
		return
	}

	metrics.Revocations.WithLabelValues(source, "all").Inc()
	logging.Warn().Str("source", source).Msg("[session] All sessions cleared")
	m.publisher.Publish(events.Event{
		Type:     events.TypeSessionsCleared,
		DeviceID: m.identity.DeviceID(),
		Reason:   reasonSessionsCleared,
		Source:   source,
		At:       time.Now(),
	})
}
