// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/metrics"
	"github.com/tomtom215/lancache-manager/internal/store"
	"github.com/tomtom215/lancache-manager/internal/transport"
)

// Defaults for Options left zero.
const (
	DefaultSettleDelay        = 500 * time.Millisecond
	DefaultSettlePollInterval = 100 * time.Millisecond
	DefaultCheckTimeout       = 15 * time.Second
)

// Options configures a Manager.
type Options struct {
	Backend   Backend
	Identity  Identity
	Publisher events.Publisher // optional
	Markers   MarkerStore      // optional, defaults to an in-memory store

	SettleDelay        time.Duration
	SettlePollInterval time.Duration
	CheckTimeout       time.Duration
}

// Manager is the auth state machine for one device.
type Manager struct {
	backend   Backend
	identity  Identity
	publisher events.Publisher
	markers   MarkerStore

	settleDelay  time.Duration
	settlePoll   time.Duration
	checkTimeout time.Duration

	mu        sync.Mutex
	mode      Mode
	checked   bool
	upgrading bool
	apiKey    string
	epoch     uint64

	obsMu     sync.Mutex
	observers map[int]func(reason string)
	nextObsID int
}

// ErrMissingDependency is returned by NewManager when Backend or Identity is nil.
var ErrMissingDependency = errors.New("session manager requires a backend and an identity")

// NewManager creates a Manager in the unauthenticated, unchecked state.
func NewManager(opts Options) (*Manager, error) {
	if opts.Backend == nil || opts.Identity == nil {
		return nil, ErrMissingDependency
	}

	m := &Manager{
		backend:      opts.Backend,
		identity:     opts.Identity,
		publisher:    opts.Publisher,
		markers:      opts.Markers,
		settleDelay:  opts.SettleDelay,
		settlePoll:   opts.SettlePollInterval,
		checkTimeout: opts.CheckTimeout,
		mode:         ModeUnauthenticated,
		observers:    make(map[int]func(string)),
	}
	if m.publisher == nil {
		m.publisher = events.PublisherFunc(func(events.Event) bool { return false })
	}
	if m.markers == nil {
		m.markers = store.NewMemoryMarkerStore()
	}
	if m.settleDelay < 0 {
		m.settleDelay = 0
	}
	if m.settlePoll <= 0 {
		m.settlePoll = DefaultSettlePollInterval
	}
	if m.checkTimeout <= 0 {
		m.checkTimeout = DefaultCheckTimeout
	}
	metrics.SetMode(string(ModeUnauthenticated))
	return m, nil
}

// BindTransport installs the manager as the client's header source and
// 401 choke point.
func (m *Manager) BindTransport(c *transport.Client) {
	c.SetHeaderSource(m)
	c.SetUnauthorizedHandler(m.HandleAPIError)
}

// State returns a snapshot of the auth record.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State {
	return State{
		Mode:            m.mode,
		IsAuthenticated: m.mode == ModeAuthenticated,
		Checked:         m.checked,
		Upgrading:       m.upgrading,
	}
}

// Mode returns the current auth mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// IsAuthenticated reports whether the mode is authenticated.
func (m *Manager) IsAuthenticated() bool {
	return m.Mode() == ModeAuthenticated
}

// IsGuestModeActive reports whether the mode is guest.
func (m *Manager) IsGuestModeActive() bool {
	return m.Mode() == ModeGuest
}

// AuthChecked reports whether at least one CheckAuth has completed.
func (m *Manager) AuthChecked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checked
}

// IsUpgrading reports whether a registration is in flight.
func (m *Manager) IsUpgrading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upgrading
}

// DeviceID returns the device fingerprint.
func (m *Manager) DeviceID() string {
	return m.identity.DeviceID()
}

// AuthHeaders returns the identity headers for an outgoing request. The API
// key is only included while authenticated.
func (m *Manager) AuthHeaders() http.Header {
	h := http.Header{}
	h.Set(transport.HeaderDeviceID, m.identity.DeviceID())

	m.mu.Lock()
	key := ""
	if m.mode == ModeAuthenticated {
		key = m.apiKey
	}
	m.mu.Unlock()

	if key != "" {
		h.Set(transport.HeaderAPIKey, key)
	}
	return h
}

// OnGuestExpired registers fn to run whenever the mode transitions into
// expired. The returned func removes it.
func (m *Manager) OnGuestExpired(fn func(reason string)) (unsubscribe func()) {
	m.obsMu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers[id] = fn
	m.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.obsMu.Lock()
			delete(m.observers, id)
			m.obsMu.Unlock()
		})
	}
}

func (m *Manager) notifyGuestExpired(reason string) {
	m.obsMu.Lock()
	fns := make([]func(string), 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	m.obsMu.Unlock()

	for _, fn := range fns {
		fn(reason)
	}
}

// transitionLocked moves to mode to and returns the previous mode. Leaving
// authenticated always drops the in-memory key. Caller holds m.mu.
func (m *Manager) transitionLocked(to Mode) Mode {
	from := m.mode
	m.mode = to
	m.epoch++
	if to != ModeAuthenticated {
		m.apiKey = ""
	}
	metrics.RecordTransition(string(from), string(to))
	if from != to {
		logging.Info().Str("from", string(from)).Str("to", string(to)).Msg("[session] Auth mode changed")
	}
	return from
}

// publishStateChanged notifies subscribers of the current mode.
func (m *Manager) publishStateChanged(mode Mode, reason string) {
	m.publisher.Publish(events.Event{
		Type:     events.TypeAuthStateChanged,
		DeviceID: m.identity.DeviceID(),
		Mode:     string(mode),
		Reason:   reason,
		Source:   "local",
		At:       time.Now(),
	})
}

// clearMarker drops the durable marker; failures are logged only.
func (m *Manager) clearMarker() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.markers.ClearSessionActive(ctx, m.identity.DeviceID()); err != nil {
		logging.Warn().Err(err).Msg("[session] Failed to clear session marker")
	}
}

func (m *Manager) setMarker(ctx context.Context) {
	if err := m.markers.SetSessionActive(ctx, m.identity.DeviceID()); err != nil {
		logging.Warn().Err(err).Msg("[session] Failed to set session marker")
	}
}
