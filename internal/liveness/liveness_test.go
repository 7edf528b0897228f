// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package liveness

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/lancache-manager/internal/session"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

const device = "dev-1"

type fakeAuthority struct {
	mu      sync.Mutex
	state   session.State
	revoked []string
	// onList, when set, runs inside ListSessions to simulate concurrent moves.
	onList func()
}

func (a *fakeAuthority) State() session.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *fakeAuthority) set(s session.State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *fakeAuthority) DeviceID() string { return device }

func (a *fakeAuthority) HandleSessionRevoked(deviceID, sessionType, source string) {
	a.mu.Lock()
	a.revoked = append(a.revoked, deviceID+"/"+sessionType+"/"+source)
	a.mu.Unlock()
}

func (a *fakeAuthority) revocations() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.revoked...)
}

type listerFunc func(ctx context.Context) ([]transport.SessionInfo, error)

func (f listerFunc) ListSessions(ctx context.Context) ([]transport.SessionInfo, error) { return f(ctx) }

type beaterFunc func(ctx context.Context) error

func (f beaterFunc) Heartbeat(ctx context.Context) error { return f(ctx) }

func authenticated() session.State {
	return session.State{Mode: session.ModeAuthenticated, IsAuthenticated: true, Checked: true}
}

func TestPoller_Poll(t *testing.T) {
	own := transport.SessionInfo{ID: "s1", Type: transport.SessionTypeAuthenticated, DeviceID: device}
	other := transport.SessionInfo{ID: "s2", Type: transport.SessionTypeAuthenticated, DeviceID: "dev-2"}

	tests := []struct {
		name        string
		state       session.State
		sessions    []transport.SessionInfo
		err         error
		wantRevoked bool
		wantCalls   int32
	}{
		{"present", authenticated(), []transport.SessionInfo{other, own}, nil, false, 1},
		{"absent", authenticated(), []transport.SessionInfo{other}, nil, true, 1},
		{"empty list", authenticated(), nil, nil, true, 1},
		{"own session revoked", authenticated(), []transport.SessionInfo{{ID: "s1", Type: "authenticated", DeviceID: device, IsRevoked: true}}, nil, true, 1},
		{"network error swallowed", authenticated(), nil, transport.ErrNetwork, false, 1},
		{"circuit open swallowed", authenticated(), nil, transport.ErrCircuitOpen, false, 1},
		{"guest skipped", session.State{Mode: session.ModeGuest, Checked: true}, nil, nil, false, 0},
		{"unauthenticated skipped", session.State{Mode: session.ModeUnauthenticated}, nil, nil, false, 0},
		{"upgrading skipped", session.State{Mode: session.ModeAuthenticated, IsAuthenticated: true, Upgrading: true}, nil, nil, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthority{state: tt.state}
			var calls atomic.Int32
			p := NewPoller(listerFunc(func(context.Context) ([]transport.SessionInfo, error) {
				calls.Add(1)
				return tt.sessions, tt.err
			}), auth, time.Hour)

			got := p.Poll(context.Background())
			if got != tt.wantRevoked {
				t.Errorf("Poll() = %v, want %v", got, tt.wantRevoked)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("ListSessions calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
			revs := auth.revocations()
			if tt.wantRevoked {
				if len(revs) != 1 || revs[0] != device+"/authenticated/poller" {
					t.Errorf("revocations = %v", revs)
				}
			} else if len(revs) != 0 {
				t.Errorf("unexpected revocations %v", revs)
			}
		})
	}
}

func TestPoller_StateMovedDuringRequest(t *testing.T) {
	auth := &fakeAuthority{state: authenticated()}
	p := NewPoller(listerFunc(func(context.Context) ([]transport.SessionInfo, error) {
		// A registration begins while the list is in flight.
		auth.set(session.State{Mode: session.ModeAuthenticated, IsAuthenticated: true, Upgrading: true})
		return nil, nil
	}), auth, time.Hour)

	if p.Poll(context.Background()) {
		t.Error("stale list must not revoke")
	}
	if revs := auth.revocations(); len(revs) != 0 {
		t.Errorf("revocations = %v", revs)
	}
}

func TestPoller_AgainstManager(t *testing.T) {
	// The poller drives a real manager out of authenticated exactly once.
	m, err := session.NewManager(session.Options{
		Backend:  stubBackend{},
		Identity: stubIdentity{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res := m.Register(context.Background(), "KEY", ""); !res.Success {
		t.Fatalf("Register: %+v", res)
	}

	p := NewPoller(listerFunc(func(context.Context) ([]transport.SessionInfo, error) {
		return []transport.SessionInfo{}, nil
	}), m, time.Hour)

	if !p.Poll(context.Background()) {
		t.Fatal("expected revocation")
	}
	if m.Mode() != session.ModeUnauthenticated {
		t.Errorf("mode = %s, want unauthenticated", m.Mode())
	}
	if p.Poll(context.Background()) {
		t.Error("second poll should be skipped once unauthenticated")
	}
}

func TestPoller_RunWithContext(t *testing.T) {
	auth := &fakeAuthority{state: authenticated()}
	var calls atomic.Int32
	p := NewPoller(listerFunc(func(context.Context) ([]transport.SessionInfo, error) {
		calls.Add(1)
		return []transport.SessionInfo{{ID: "s1", DeviceID: device}}, nil
	}), auth, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.RunWithContext(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}
	if calls.Load() < 2 {
		t.Errorf("polled %d times, want at least 2", calls.Load())
	}
}

func TestHeartbeat_Beat(t *testing.T) {
	tests := []struct {
		name  string
		state session.State
		err   error
		sent  bool
		want  bool
	}{
		{"authenticated", authenticated(), nil, true, true},
		{"guest", session.State{Mode: session.ModeGuest}, nil, true, true},
		{"expired", session.State{Mode: session.ModeExpired}, nil, false, false},
		{"unauthenticated", session.State{Mode: session.ModeUnauthenticated}, nil, false, false},
		{"upgrading", session.State{Mode: session.ModeGuest, Upgrading: true}, nil, false, false},
		{"failure swallowed", authenticated(), transport.ErrNetwork, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent atomic.Bool
			h := NewHeartbeat(beaterFunc(func(context.Context) error {
				sent.Store(true)
				return tt.err
			}), &fakeAuthority{state: tt.state}, time.Hour)

			if got := h.Beat(context.Background()); got != tt.want {
				t.Errorf("Beat() = %v, want %v", got, tt.want)
			}
			if sent.Load() != tt.sent {
				t.Errorf("sent = %v, want %v", sent.Load(), tt.sent)
			}
		})
	}
}

func TestHeartbeat_RunWithContext(t *testing.T) {
	var beats atomic.Int32
	h := NewHeartbeat(beaterFunc(func(context.Context) error {
		beats.Add(1)
		return nil
	}), &fakeAuthority{state: session.State{Mode: session.ModeGuest}}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.RunWithContext(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for beats.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}
	if beats.Load() < 2 {
		t.Errorf("beats = %d, want at least 2", beats.Load())
	}
}

func TestDefaults(t *testing.T) {
	if p := NewPoller(nil, nil, 0); p.interval != DefaultPollInterval {
		t.Errorf("poll interval = %v", p.interval)
	}
	if h := NewHeartbeat(nil, nil, -1); h.interval != DefaultHeartbeatInterval {
		t.Errorf("heartbeat interval = %v", h.interval)
	}
}
