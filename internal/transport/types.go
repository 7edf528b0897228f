// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package transport

import "time"

// AuthStatus is the body of GET /auth/status.
type AuthStatus struct {
	RequiresAuth         bool   `json:"requiresAuth"`
	IsAuthenticated      bool   `json:"isAuthenticated"`
	AuthMode             string `json:"authMode,omitempty"`
	AuthenticationType   string `json:"authenticationType,omitempty"`
	GuestTimeRemaining   *int   `json:"guestTimeRemaining,omitempty"`
	HasData              bool   `json:"hasData,omitempty"`
	HasEverBeenSetup     bool   `json:"hasEverBeenSetup,omitempty"`
	HasBeenInitialized   bool   `json:"hasBeenInitialized,omitempty"`
	HasDataLoaded        bool   `json:"hasDataLoaded,omitempty"`
	PrefillEnabled       bool   `json:"prefillEnabled,omitempty"`
	PrefillTimeRemaining *int   `json:"prefillTimeRemaining,omitempty"`
}

// ActionResult is the {success, message, warning} body returned by
// registration, logout and key regeneration.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// SessionInfo is one entry of GET /sessions.
type SessionInfo struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	DeviceID   string     `json:"deviceId,omitempty"`
	DeviceName string     `json:"deviceName,omitempty"`
	IsRevoked  bool       `json:"isRevoked,omitempty"`
	LastSeenAt *time.Time `json:"lastSeenAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Session types used by the backend.
const (
	SessionTypeAuthenticated = "authenticated"
	SessionTypeGuest         = "guest"
)

// Matches reports whether the session belongs to deviceID. Older backends
// key sessions by device id and omit the deviceId field.
func (s SessionInfo) Matches(deviceID string) bool {
	if deviceID == "" {
		return false
	}
	return s.DeviceID == deviceID || (s.DeviceID == "" && s.ID == deviceID)
}

// FindSession returns the first live session for deviceID of the given type
// ("" matches any type).
func FindSession(sessions []SessionInfo, deviceID, sessionType string) (SessionInfo, bool) {
	for _, s := range sessions {
		if s.IsRevoked || !s.Matches(deviceID) {
			continue
		}
		if sessionType == "" || s.Type == sessionType {
			return s, true
		}
	}
	return SessionInfo{}, false
}

type sessionList struct {
	Sessions []SessionInfo `json:"sessions"`
}

type guestSessionRequest struct {
	DeviceID        string `json:"deviceId"`
	DeviceName      string `json:"deviceName"`
	OperatingSystem string `json:"operatingSystem"`
	Browser         string `json:"browser"`
}

type registerRequest struct {
	DeviceID   string `json:"deviceId"`
	APIKey     string `json:"apiKey"`
	DeviceName string `json:"deviceName,omitempty"`
}

// errorBody covers the error shapes the backend uses.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) message() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
