// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package push

import (
	"context"
	"testing"

	"github.com/tomtom215/lancache-manager/internal/identity"
	"github.com/tomtom215/lancache-manager/internal/session"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

type stubIdentity struct{}

func (stubIdentity) DeviceID() string              { return "push-device" }
func (stubIdentity) Describe() identity.DeviceInfo { return identity.DeviceInfo{DeviceName: "rig"} }

type stubBackend struct{}

func (stubBackend) AuthStatus(context.Context) (*transport.AuthStatus, error) {
	return &transport.AuthStatus{RequiresAuth: true, AuthMode: "guest"}, nil
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
func (stubBackend) ListSessions(context.Context) ([]transport.SessionInfo, error) { return nil, nil }

// newGuestManager returns a manager already in guest mode.
func newGuestManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(session.Options{Backend: stubBackend{}, Identity: stubIdentity{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.StartGuestMode(context.Background()); err != nil {
		t.Fatal(err)
	}
	return m
}
