// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package session

import (
	"context"

	"github.com/tomtom215/lancache-manager/internal/identity"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

// Mode is the auth mode. Values match the backend's authMode field.
type Mode string

const (
	ModeUnauthenticated Mode = "unauthenticated"
	ModeGuest           Mode = "guest"
	ModeExpired         Mode = "expired"
	ModeAuthenticated   Mode = "authenticated"
)

// ParseMode returns the Mode for s and whether it is known.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeUnauthenticated, ModeGuest, ModeExpired, ModeAuthenticated:
		return m, true
	default:
		return "", false
	}
}

// State is a snapshot of the auth record.
type State struct {
	Mode            Mode `json:"authMode"`
	IsAuthenticated bool `json:"isAuthenticated"`
	Checked         bool `json:"authChecked"`
	Upgrading       bool `json:"isUpgrading"`
}

// CheckResult is what CheckAuth reports to UI layers.
type CheckResult struct {
	RequiresAuth         bool   `json:"requiresAuth"`
	IsAuthenticated      bool   `json:"isAuthenticated"`
	AuthMode             Mode   `json:"authMode"`
	AuthenticationType   string `json:"authenticationType,omitempty"`
	GuestTimeRemaining   *int   `json:"guestTimeRemaining,omitempty"`
	HasData              bool   `json:"hasData"`
	HasEverBeenSetup     bool   `json:"hasEverBeenSetup"`
	HasBeenInitialized   bool   `json:"hasBeenInitialized"`
	HasDataLoaded        bool   `json:"hasDataLoaded"`
	PrefillEnabled       bool   `json:"prefillEnabled"`
	PrefillTimeRemaining *int   `json:"prefillTimeRemaining,omitempty"`
	Error                string `json:"error,omitempty"`
}

// ActionResult is the outcome of a user-triggered auth action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// Backend is the subset of the backend API the state machine drives.
// *transport.Client implements it.
type Backend interface {
	AuthStatus(ctx context.Context) (*transport.AuthStatus, error)
	CreateGuestSession(ctx context.Context, info identity.DeviceInfo) error
	RegisterDevice(ctx context.Context, apiKey, deviceName string) (*transport.ActionResult, error)
	DeleteCurrentSession(ctx context.Context) (*transport.ActionResult, error)
	RegenerateAPIKey(ctx context.Context) (*transport.ActionResult, error)
	ListSessions(ctx context.Context) ([]transport.SessionInfo, error)
}

var _ Backend = (*transport.Client)(nil)

// Identity supplies the device id and description.
type Identity interface {
	DeviceID() string
	Describe() identity.DeviceInfo
}

var _ Identity = (*identity.Provider)(nil)

// MarkerStore persists the "authenticated session was active" flag.
type MarkerStore interface {
	SessionActive(ctx context.Context, deviceID string) (bool, error)
	SetSessionActive(ctx context.Context, deviceID string) error
	ClearSessionActive(ctx context.Context, deviceID string) error
}
