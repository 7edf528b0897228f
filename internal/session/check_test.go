// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package session

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

func intPtr(v int) *int { return &v }

func TestResolveMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status transport.AuthStatus
		want   Mode
	}{
		{"explicit guest", transport.AuthStatus{AuthMode: "guest"}, ModeGuest},
		{"explicit expired", transport.AuthStatus{AuthMode: "expired"}, ModeExpired},
		{"explicit wins over flag", transport.AuthStatus{AuthMode: "unauthenticated", IsAuthenticated: true}, ModeUnauthenticated},
		{"implied authenticated", transport.AuthStatus{IsAuthenticated: true}, ModeAuthenticated},
		{"implied unauthenticated", transport.AuthStatus{}, ModeUnauthenticated},
		{"unknown mode falls back", transport.AuthStatus{AuthMode: "superuser", IsAuthenticated: true}, ModeAuthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.status
			if got := resolveMode(&status); got != tt.want {
				t.Errorf("resolveMode = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCheckAuth_AdoptsServerMode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return &transport.AuthStatus{RequiresAuth: true, AuthMode: "expired", HasEverBeenSetup: true}, nil
	}
	var expired int
	env.m.OnGuestExpired(func(string) { expired++ })

	res := env.m.CheckAuth(context.Background())
	if res.AuthMode != ModeExpired || res.IsAuthenticated || !res.HasEverBeenSetup {
		t.Errorf("result = %+v", res)
	}
	if env.m.Mode() != ModeExpired {
		t.Errorf("mode = %s", env.m.Mode())
	}
	if expired != 1 {
		t.Errorf("expiry observers = %d, want 1", expired)
	}
	if n := env.rec.count(events.TypeAuthStateChanged); n != 1 {
		t.Errorf("state-changed = %d, want 1", n)
	}
}

func TestCheckAuth_AuthenticatedWithMarker(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if err := env.markers.SetSessionActive(context.Background(), testDeviceID); err != nil {
		t.Fatal(err)
	}
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return &transport.AuthStatus{RequiresAuth: true, IsAuthenticated: true, AuthenticationType: "apiKey"}, nil
	}

	res := env.m.CheckAuth(context.Background())
	if res.AuthMode != ModeAuthenticated || !res.IsAuthenticated || res.AuthenticationType != "apiKey" {
		t.Errorf("result = %+v", res)
	}
	if !env.m.IsAuthenticated() {
		t.Error("should adopt authenticated")
	}
}

func TestCheckAuth_MarkerClearedForcesReauth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return &transport.AuthStatus{RequiresAuth: true, IsAuthenticated: true}, nil
	}

	res := env.m.CheckAuth(context.Background())
	if res.AuthMode != ModeUnauthenticated || res.IsAuthenticated {
		t.Errorf("result = %+v, want forced unauthenticated", res)
	}
	if env.m.Mode() != ModeUnauthenticated || !env.m.AuthChecked() {
		t.Errorf("state = %+v", env.m.State())
	}
	ev, ok := env.rec.last(events.TypeAuthStateChanged)
	if !ok || ev.Reason != reasonLocalCleared {
		t.Errorf("state-changed = %+v, %v", ev, ok)
	}
}

func TestCheckAuth_HeldCredentialSkipsMarker(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.authenticate(t)
	_ = env.markers.ClearSessionActive(context.Background(), testDeviceID)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return &transport.AuthStatus{RequiresAuth: true, IsAuthenticated: true}, nil
	}

	env.m.CheckAuth(context.Background())
	if env.m.Mode() != ModeAuthenticated {
		t.Error("a held credential is proof enough")
	}
}

func TestCheckAuth_ServerDowngradeClearsCredential(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.authenticate(t)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return &transport.AuthStatus{RequiresAuth: true}, nil
	}

	env.m.CheckAuth(context.Background())
	if env.m.Mode() != ModeUnauthenticated {
		t.Errorf("mode = %s", env.m.Mode())
	}
	if env.m.AuthHeaders().Get(transport.HeaderAPIKey) != "" {
		t.Error("credential should be dropped")
	}
	if active, _ := env.markers.SessionActive(context.Background(), testDeviceID); active {
		t.Error("marker should be cleared")
	}
}

func TestCheckAuth_Unauthorized(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.authenticate(t)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return nil, transport.ErrUnauthorized
	}

	res := env.m.CheckAuth(context.Background())
	if res.AuthMode != ModeUnauthenticated || res.IsAuthenticated || !res.RequiresAuth {
		t.Errorf("result = %+v", res)
	}
	if env.m.Mode() != ModeUnauthenticated || !env.m.AuthChecked() {
		t.Errorf("state = %+v", env.m.State())
	}
	if n := env.rec.count(events.TypeAuthStateChanged); n != 1 {
		t.Errorf("state-changed = %d, want 1", n)
	}
}

func TestCheckAuth_NetworkFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.authenticate(t)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return nil, transport.ErrNetwork
	}

	res := env.m.CheckAuth(context.Background())
	if res.IsAuthenticated || res.AuthMode != ModeUnauthenticated || res.Error == "" {
		t.Errorf("result = %+v, want unauthenticated-leaning with error", res)
	}
	if !env.m.AuthChecked() {
		t.Error("checked must be set even on failure")
	}
	if env.m.Mode() != ModeAuthenticated {
		t.Error("a network blip must not log the device out")
	}
}

func TestCheckAuth_GuestSkipsCoreDecision(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startGuest(t)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return &transport.AuthStatus{RequiresAuth: true, AuthMode: "unauthenticated", GuestTimeRemaining: intPtr(17), HasBeenInitialized: true}, nil
	}

	res := env.m.CheckAuth(context.Background())
	if res.AuthMode != ModeGuest || env.m.Mode() != ModeGuest {
		t.Errorf("result = %+v, mode %s; guest should be kept", res, env.m.Mode())
	}
	if res.GuestTimeRemaining == nil || *res.GuestTimeRemaining != 17 || !res.HasBeenInitialized {
		t.Errorf("auxiliary fields not fetched: %+v", res)
	}
}

func TestCheckAuth_GuestExpiredByServer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startGuest(t)
	var expired int
	env.m.OnGuestExpired(func(string) { expired++ })
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return &transport.AuthStatus{RequiresAuth: true, AuthMode: "expired"}, nil
	}

	res := env.m.CheckAuth(context.Background())
	if res.AuthMode != ModeExpired || env.m.Mode() != ModeExpired {
		t.Errorf("result = %+v", res)
	}
	if expired != 1 {
		t.Errorf("expiry observers = %d", expired)
	}
}

func TestCheckAuth_GuestNetworkFailureKeepsGuess(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startGuest(t)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return nil, transport.ErrNetwork
	}

	res := env.m.CheckAuth(context.Background())
	if res.AuthMode != ModeGuest || res.IsAuthenticated || res.Error == "" {
		t.Errorf("result = %+v", res)
	}
	if env.m.Mode() != ModeGuest {
		t.Errorf("mode = %s", env.m.Mode())
	}
}

func TestCheckAuth_GuestRevoked(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startGuest(t)
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		return nil, transport.ErrGuestSessionRevoked
	}

	res := env.m.CheckAuth(context.Background())
	if env.m.Mode() != ModeExpired {
		t.Errorf("mode = %s, want expired", env.m.Mode())
	}
	if res.AuthMode != ModeExpired {
		t.Errorf("result mode = %s", res.AuthMode)
	}
}

func TestCheckAuth_StaleResultDiscarded(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	inFlight := make(chan struct{})
	release := make(chan struct{})
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		close(inFlight)
		<-release
		// Response reflects the world before the guest session was created.
		return &transport.AuthStatus{RequiresAuth: true}, nil
	}

	done := make(chan CheckResult)
	go func() { done <- env.m.CheckAuth(context.Background()) }()
	<-inFlight

	// A newer transition lands while the check is outstanding.
	env.m.mu.Lock()
	env.m.transitionLocked(ModeGuest)
	env.m.mu.Unlock()

	close(release)
	res := <-done
	if env.m.Mode() != ModeGuest {
		t.Errorf("stale check overwrote newer state: mode = %s", env.m.Mode())
	}
	if res.AuthMode != ModeGuest {
		t.Errorf("result should reflect current state, got %s", res.AuthMode)
	}
	if !env.m.AuthChecked() {
		t.Error("checked should still be set")
	}
}

func TestCheckAuth_DiscardedWhileUpgrading(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	checkInFlight := make(chan struct{})
	releaseCheck := make(chan struct{})
	env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
		close(checkInFlight)
		<-releaseCheck
		return &transport.AuthStatus{RequiresAuth: true}, nil
	}
	regInFlight := make(chan struct{})
	releaseReg := make(chan struct{})
	env.backend.register = func(context.Context, string, string) (*transport.ActionResult, error) {
		close(regInFlight)
		<-releaseReg
		return &transport.ActionResult{Success: true}, nil
	}

	checkDone := make(chan struct{})
	go func() { env.m.CheckAuth(context.Background()); close(checkDone) }()
	<-checkInFlight

	regDone := make(chan struct{})
	go func() { env.m.Register(context.Background(), "VALIDKEY", ""); close(regDone) }()
	<-regInFlight

	close(releaseCheck)
	<-checkDone
	close(releaseReg)
	<-regDone

	if env.m.Mode() != ModeAuthenticated {
		t.Errorf("mode = %s, want authenticated", env.m.Mode())
	}
}

func TestCheckAuth_StaleGuestCheckAfterRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response func() (*transport.AuthStatus, error)
	}{
		{"server reports expired", func() (*transport.AuthStatus, error) {
			return &transport.AuthStatus{RequiresAuth: true, AuthMode: string(ModeExpired)}, nil
		}},
		{"guest revoked 401", func() (*transport.AuthStatus, error) {
			return nil, transport.ErrGuestSessionRevoked
		}},
		{"plain 401", func() (*transport.AuthStatus, error) {
			return nil, transport.ErrUnauthorized
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.startGuest(t)
			var expiries atomic.Int32
			env.m.OnGuestExpired(func(string) { expiries.Add(1) })

			inFlight := make(chan struct{})
			release := make(chan struct{})
			env.backend.authStatus = func(context.Context) (*transport.AuthStatus, error) {
				close(inFlight)
				<-release
				return tt.response()
			}

			done := make(chan CheckResult)
			go func() { done <- env.m.CheckAuth(context.Background()) }()
			<-inFlight

			if res := env.m.Register(context.Background(), "VALIDKEY", ""); !res.Success {
				t.Fatalf("Register = %+v", res)
			}

			close(release)
			res := <-done

			s := env.m.State()
			if s.Mode != ModeAuthenticated || !s.IsAuthenticated {
				t.Errorf("stale guest check overwrote upgrade: state = %+v", s)
			}
			if res.AuthMode != ModeAuthenticated {
				t.Errorf("result mode = %s, want authenticated", res.AuthMode)
			}
			if n := expiries.Load(); n != 0 {
				t.Errorf("expiry callbacks = %d, want 0", n)
			}
			if env.m.AuthHeaders().Get(transport.HeaderAPIKey) != "VALIDKEY" {
				t.Error("credential dropped by stale guest check")
			}
		})
	}
}
