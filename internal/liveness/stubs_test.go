// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package liveness

import (
	"context"

	"github.com/tomtom215/lancache-manager/internal/identity"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

type stubIdentity struct{}

func (stubIdentity) DeviceID() string              { return device }
func (stubIdentity) Describe() identity.DeviceInfo { return identity.DeviceInfo{DeviceName: "rig"} }

// stubBackend accepts every action and reports an authenticated session.
type stubBackend struct{}

func (stubBackend) AuthStatus(context.Context) (*transport.AuthStatus, error) {
	return &transport.AuthStatus{RequiresAuth: true, IsAuthenticated: true, AuthMode: "authenticated"}, nil
}
func (stubBackend) CreateGuestSession(context.Context, identity.DeviceInfo) error { return nil }
func (stubBackend) RegisterDevice(context.Context, string, string) (*transport.ActionResult, error) {
	return &transport.ActionResult{Success: true}, nil
}
func (stubBackend) DeleteCurrentSession(context.Context) (*transport.ActionResult, error) {
	return &transport.ActionResult{Success: true}, nil
}
func (stubBackend) RegenerateAPIKey(context.Context) (*transport.ActionResult, error) {
	return &transport.ActionResult{Success: true}, nil
}
func (stubBackend) ListSessions(context.Context) ([]transport.SessionInfo, error) {
	return nil, nil
}
