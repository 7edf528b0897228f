// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package events

import "time"

// Type is the wire name of a notification.
type Type string

// Notification types delivered to UI subscribers.
const (
	TypeAuthStateChanged    Type = "auth-state-changed"
	TypeSessionRevoked      Type = "user-session-revoked"
	TypeSessionsCleared     Type = "user-sessions-cleared"
	TypeGuestSessionCreated Type = "guest-session-created"
)

// AllTypes lists every notification type.
var AllTypes = []Type{
	TypeAuthStateChanged,
	TypeSessionRevoked,
	TypeSessionsCleared,
	TypeGuestSessionCreated,
}

// Event is a fire-and-forget notification.
type Event struct {
	Type        Type      `json:"type"`
	DeviceID    string    `json:"deviceId,omitempty"`
	SessionType string    `json:"sessionType,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Source      string    `json:"source,omitempty"` // "poller", "push", "api", "local"
	At          time.Time `json:"at"`
}

// deduplicated reports whether logically identical copies of e arriving
// from different channels should be collapsed.
func (e Event) deduplicated() bool {
	return e.Type == TypeSessionRevoked || e.Type == TypeSessionsCleared
}

// dedupKey identifies logically identical events regardless of source.
func (e Event) dedupKey() string {
	return string(e.Type) + "|" + e.DeviceID + "|" + e.SessionType
}

// Publisher is the narrow interface the state machine emits through.
type Publisher interface {
	Publish(e Event) bool
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(e Event) bool

// Publish implements Publisher.
func (f PublisherFunc) Publish(e Event) bool { return f(e) }
