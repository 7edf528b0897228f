// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/session"
)

// stateResponse is the body of GET /api/auth/state.
type stateResponse struct {
	session.State
	DeviceID string `json:"deviceId"`
}

// Health answers liveness checks.
//
// @Summary Liveness check
// @Description Reports that the status server is up. Does not contact the backend.
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]string "Server is up"
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AuthState returns the current state snapshot without contacting the backend.
//
// @Summary Current auth state
// @Description Returns the session mode, check and upgrade flags, and this device's identifier.
// @Tags Auth
// @Produce json
// @Success 200 {object} stateResponse "Current state"
// @Failure 429 {object} apiError "Rate limit exceeded"
// @Router /api/auth/state [get]
func (h *Handler) AuthState(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, stateResponse{
		State:    h.state.State(),
		DeviceID: h.state.DeviceID(),
	})
}

// AuthCheck runs CheckAuth. Backend failures are reported in the result's
// error field, not as an HTTP error.
//
// @Summary Run an auth check
// @Description Asks the backend for this device's auth status and applies it to the session.
// @Description Backend failures are reported in the error field with status 200.
// @Tags Auth
// @Produce json
// @Success 200 {object} session.CheckResult "Check result"
// @Failure 429 {object} apiError "Rate limit exceeded"
// @Router /api/auth/check [post]
func (h *Handler) AuthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.checkLimit)
	defer cancel()

	res := h.state.CheckAuth(ctx)
	if res.Error != "" {
		logging.Ctx(r.Context()).Debug().Str("error", sanitizeLogValue(res.Error)).Msg("[api] Auth check reported an error")
	}
	respondJSON(w, http.StatusOK, res)
}

// ExitGuest leaves guest or expired mode and returns the resulting state.
//
// @Summary Exit guest mode
// @Description Abandons guest (or expired guest) access. The session returns to unauthenticated.
// @Tags Auth
// @Produce json
// @Success 200 {object} stateResponse "State after exiting"
// @Failure 409 {object} apiError "Session is not in guest mode"
// @Failure 429 {object} apiError "Rate limit exceeded"
// @Router /api/auth/guest/exit [post]
func (h *Handler) ExitGuest(w http.ResponseWriter, r *http.Request) {
	mode := h.state.State().Mode
	if mode != session.ModeGuest && mode != session.ModeExpired {
		respondError(w, http.StatusConflict, "NOT_IN_GUEST_MODE", "Session is not in guest mode")
		return
	}

	h.state.ExitGuestMode()
	logging.Ctx(r.Context()).Info().Str("from", string(mode)).Msg("[api] Guest mode exited")
	respondJSON(w, http.StatusOK, stateResponse{
		State:    h.state.State(),
		DeviceID: h.state.DeviceID(),
	})
}
