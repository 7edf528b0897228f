// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/metrics"
	"github.com/tomtom215/lancache-manager/internal/transport"
	"github.com/tomtom215/lancache-manager/internal/validation"
)

// registerInput is validated before any network call.
type registerInput struct {
	APIKey     string `label:"API key" validate:"required,max=512,printascii"`
	DeviceName string `label:"Device name" validate:"max=100"`
}

// ErrUpgradeInProgress is returned when Register is called while another
// registration is still running.
var ErrUpgradeInProgress = errors.New("registration already in progress")

// StartGuestMode registers a guest session with the backend and, only once
// that succeeds, switches to guest. On failure the state is untouched.
func (m *Manager) StartGuestMode(ctx context.Context) error {
	if err := m.backend.CreateGuestSession(ctx, m.identity.Describe()); err != nil {
		logging.Warn().Err(err).Msg("[session] Guest session request rejected")
		return fmt.Errorf("start guest mode: %w", err)
	}

	m.mu.Lock()
	from := m.transitionLocked(ModeGuest)
	m.checked = true
	m.mu.Unlock()

	if from == ModeAuthenticated {
		m.clearMarker()
	}
	m.publisher.Publish(events.Event{
		Type:     events.TypeGuestSessionCreated,
		DeviceID: m.identity.DeviceID(),
		Mode:     string(ModeGuest),
		Source:   "local",
		At:       time.Now(),
	})
	if from != ModeGuest {
		m.publishStateChanged(ModeGuest, reasonGuestStarted)
	}
	return nil
}

// ExpireGuestMode moves guest to expired. Only guest can expire: any other
// mode, or an upgrade in flight, means the signal refers to a superseded
// guest session and it is ignored. Observers and subscribers are notified
// only on a real transition.
func (m *Manager) ExpireGuestMode(reason string) {
	m.expireGuest(reason)
}

func (m *Manager) expireGuest(reason string) bool {
	m.mu.Lock()
	if m.upgrading || m.mode != ModeGuest {
		mode := m.mode
		m.mu.Unlock()
		logging.Debug().Str("mode", string(mode)).Msg("[session] Ignoring guest expiry outside guest mode")
		return false
	}
	m.transitionLocked(ModeExpired)
	m.mu.Unlock()

	logging.Info().Str("reason", reason).Msg("[session] Guest session expired")
	m.publishStateChanged(ModeExpired, reason)
	m.notifyGuestExpired(reason)
	return true
}

// ExitGuestMode abandons guest (or expired) access without error.
func (m *Manager) ExitGuestMode() {
	m.mu.Lock()
	if m.mode != ModeGuest && m.mode != ModeExpired {
		m.mu.Unlock()
		return
	}
	m.transitionLocked(ModeUnauthenticated)
	m.mu.Unlock()

	m.publishStateChanged(ModeUnauthenticated, reasonGuestExited)
}

// Register upgrades this device to authenticated with apiKey. The upgrade
// flag is held for the whole call, including the settle wait, so liveness
// checks cannot observe the half-migrated backend state. Failures leave the
// state untouched.
func (m *Manager) Register(ctx context.Context, apiKey, deviceName string) ActionResult {
	in := registerInput{APIKey: strings.TrimSpace(apiKey), DeviceName: strings.TrimSpace(deviceName)}
	if verr := validation.ValidateStruct(in); verr != nil {
		return ActionResult{Success: false, Message: verr.First()}
	}

	m.mu.Lock()
	if m.upgrading {
		m.mu.Unlock()
		return ActionResult{Success: false, Message: ErrUpgradeInProgress.Error()}
	}
	m.upgrading = true
	m.epoch++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.upgrading = false
		m.mu.Unlock()
	}()

	start := time.Now()
	res, err := m.backend.RegisterDevice(ctx, in.APIKey, in.DeviceName)
	if err != nil {
		logging.Warn().Err(err).Msg("[session] Device registration failed")
		return ActionResult{Success: false, Message: transport.MessageOf(err)}
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Registration failed"
		}
		return ActionResult{Success: false, Message: msg}
	}

	m.mu.Lock()
	m.transitionLocked(ModeAuthenticated)
	m.apiKey = in.APIKey
	m.checked = true
	m.mu.Unlock()

	m.setMarker(ctx)
	confirmed := m.settle(ctx)
	metrics.UpgradeDuration.Observe(time.Since(start).Seconds())
	logging.Info().
		Str("device", logging.ShortDeviceID(m.identity.DeviceID())).
		Str("api_key", logging.RedactSecret(in.APIKey)).
		Bool("settle_confirmed", confirmed).
		Msg("[session] Device registered")

	m.publishStateChanged(ModeAuthenticated, reasonRegistered)
	return ActionResult{Success: true, Message: res.Message}
}

// settle waits for the backend to finish migrating from the guest session:
// the device must be listed as authenticated with no guest session left.
// It gives up after the settle delay; the registration already succeeded.
func (m *Manager) settle(ctx context.Context) bool {
	if m.settleDelay <= 0 {
		return true
	}
	deadline := time.Now().Add(m.settleDelay)
	deviceID := m.identity.DeviceID()

	for {
		sessions, err := m.backend.ListSessions(ctx)
		if err == nil {
			_, authed := transport.FindSession(sessions, deviceID, transport.SessionTypeAuthenticated)
			_, guest := transport.FindSession(sessions, deviceID, transport.SessionTypeGuest)
			if authed && !guest {
				return true
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			logging.Debug().Msg("[session] Upgrade settle not confirmed before deadline")
			return false
		}
		wait := m.settlePoll
		if wait > remaining {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}

// Logout revokes the current session on the backend and then clears local
// state. If the backend cannot be reached the local state is kept, so the
// client never believes it logged out while the server session stays valid.
// A 401 means the session is already gone and is treated as success.
func (m *Manager) Logout(ctx context.Context) ActionResult {
	res, err := m.backend.DeleteCurrentSession(ctx)
	if err != nil {
		if transport.IsUnauthorized(err) {
			m.HandleAPIError(err)
			return ActionResult{Success: true, Message: "Session already ended"}
		}
		logging.Warn().Err(err).Msg("[session] Logout failed, keeping local state")
		return ActionResult{Success: false, Message: transport.MessageOf(err)}
	}
	if !res.Success {
		return ActionResult{Success: false, Message: res.Message}
	}

	m.deauthenticate(reasonLogout)
	return ActionResult{Success: true, Message: res.Message}
}

// RegenerateAPIKey invalidates the current key on the backend. An
// authenticated device is then de-authenticated; guest mode is left alone.
func (m *Manager) RegenerateAPIKey(ctx context.Context) ActionResult {
	res, err := m.backend.RegenerateAPIKey(ctx)
	if err != nil {
		if transport.IsUnauthorized(err) {
			m.HandleAPIError(err)
		}
		return ActionResult{Success: false, Message: transport.MessageOf(err)}
	}
	if !res.Success {
		return ActionResult{Success: false, Message: res.Message, Warning: res.Warning}
	}

	if m.IsAuthenticated() {
		m.deauthenticate(reasonKeyRegenerated)
	}
	return ActionResult{Success: true, Message: res.Message, Warning: res.Warning}
}

// deauthenticate moves to unauthenticated and notifies, unless already there.
func (m *Manager) deauthenticate(reason string) {
	m.mu.Lock()
	if m.mode == ModeUnauthenticated && m.apiKey == "" {
		m.mu.Unlock()
		return
	}
	m.transitionLocked(ModeUnauthenticated)
	m.mu.Unlock()

	m.clearMarker()
	m.publishStateChanged(ModeUnauthenticated, reason)
}
