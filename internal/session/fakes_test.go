// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package session

import (
	"context"
	"sync"
	"testing"

	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/identity"
	"github.com/tomtom215/lancache-manager/internal/store"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

const testDeviceID = "device-under-test"

type fakeIdentity struct{}

func (fakeIdentity) DeviceID() string { return testDeviceID }
func (fakeIdentity) Describe() identity.DeviceInfo {
	return identity.DeviceInfo{DeviceName: "rig", OperatingSystem: "linux", Browser: "test/1"}
}

// fakeBackend is a programmable Backend. Nil funcs return zero successes.
type fakeBackend struct {
	mu sync.Mutex

	authStatus   func(ctx context.Context) (*transport.AuthStatus, error)
	createGuest  func(ctx context.Context, info identity.DeviceInfo) error
	register     func(ctx context.Context, apiKey, name string) (*transport.ActionResult, error)
	deleteCur    func(ctx context.Context) (*transport.ActionResult, error)
	regenerate   func(ctx context.Context) (*transport.ActionResult, error)
	listSessions func(ctx context.Context) ([]transport.SessionInfo, error)

	calls map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (b *fakeBackend) count(name string) {
	b.mu.Lock()
	b.calls[name]++
	b.mu.Unlock()
}

func (b *fakeBackend) callCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *fakeBackend) AuthStatus(ctx context.Context) (*transport.AuthStatus, error) {
	b.count("AuthStatus")
	if b.authStatus == nil {
		return &transport.AuthStatus{RequiresAuth: true}, nil
	}
	return b.authStatus(ctx)
}

func (b *fakeBackend) CreateGuestSession(ctx context.Context, info identity.DeviceInfo) error {
	b.count("CreateGuestSession")
	if b.createGuest == nil {
		return nil
	}
	return b.createGuest(ctx, info)
}

func (b *fakeBackend) RegisterDevice(ctx context.Context, apiKey, name string) (*transport.ActionResult, error) {
	b.count("RegisterDevice")
	if b.register == nil {
		return &transport.ActionResult{Success: true, Message: "ok"}, nil
	}
	return b.register(ctx, apiKey, name)
}

func (b *fakeBackend) DeleteCurrentSession(ctx context.Context) (*transport.ActionResult, error) {
	b.count("DeleteCurrentSession")
	if b.deleteCur == nil {
		return &transport.ActionResult{Success: true}, nil
	}
	return b.deleteCur(ctx)
}

func (b *fakeBackend) RegenerateAPIKey(ctx context.Context) (*transport.ActionResult, error) {
	b.count("RegenerateAPIKey")
	if b.regenerate == nil {
		return &transport.ActionResult{Success: true}, nil
	}
	return b.regenerate(ctx)
}

func (b *fakeBackend) ListSessions(ctx context.Context) ([]transport.SessionInfo, error) {
	b.count("ListSessions")
	if b.listSessions == nil {
		return []transport.SessionInfo{{ID: "s1", Type: transport.SessionTypeAuthenticated, DeviceID: testDeviceID}}, nil
	}
	return b.listSessions(ctx)
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) bool {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return true
}

func (r *recorder) count(t events.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t events.Type) (events.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return events.Event{}, false
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

type testEnv struct {
	m       *Manager
	backend *fakeBackend
	rec     *recorder
	markers *store.MemoryMarkerStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		backend: newFakeBackend(),
		rec:     &recorder{},
		markers: store.NewMemoryMarkerStore(),
	}
	m, err := NewManager(Options{
		Backend:            env.backend,
		Identity:           fakeIdentity{},
		Publisher:          env.rec,
		Markers:            env.markers,
		SettleDelay:        0,
		SettlePollInterval: 0,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	env.m = m
	return env
}

// authenticate drives the manager into authenticated with a held key.
func (env *testEnv) authenticate(t *testing.T) {
	t.Helper()
	res := env.m.Register(context.Background(), "VALIDKEY", "")
	if !res.Success {
		t.Fatalf("Register failed: %+v", res)
	}
	env.rec.reset()
}

// startGuest drives the manager into guest.
func (env *testEnv) startGuest(t *testing.T) {
	t.Helper()
	if err := env.m.StartGuestMode(context.Background()); err != nil {
		t.Fatalf("StartGuestMode: %v", err)
	}
	env.rec.reset()
}

// assertExclusive checks mode exclusivity on a snapshot.
func assertExclusive(t *testing.T, s State) {
	t.Helper()
	if _, ok := ParseMode(string(s.Mode)); !ok {
		t.Fatalf("unknown mode %q", s.Mode)
	}
	if s.IsAuthenticated != (s.Mode == ModeAuthenticated) {
		t.Fatalf("IsAuthenticated=%v with mode %q", s.IsAuthenticated, s.Mode)
	}
}
