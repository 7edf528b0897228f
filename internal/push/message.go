// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package push

import (
	"github.com/goccy/go-json"
)

// Message types sent by the backend.
const (
	TypeUserSessionRevoked  = "UserSessionRevoked"
	TypeUserSessionsCleared = "UserSessionsCleared"
	TypeGuestSessionRevoked = "GuestSessionRevoked"
	TypeKeepAlive           = "KeepAlive"
)

// Message is a generic push frame.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RevokedData is the payload of session revocation frames.
type RevokedData struct {
	DeviceID    string `json:"deviceId"`
	SessionType string `json:"sessionType,omitempty"`
}

// Sink receives decoded notifications. *session.Manager implements it.
type Sink interface {
	HandleSessionRevoked(deviceID, sessionType, source string)
	HandleSessionsCleared(source string)
}
