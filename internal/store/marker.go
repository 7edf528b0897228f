// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const markerKeyPrefix = "marker:session_active:"

// Marker is the stored record.
type Marker struct {
	DeviceID string    `json:"deviceId"`
	SetAt    time.Time `json:"setAt"`
}

// BadgerMarkerStore keeps markers in a BadgerDB directory.
type BadgerMarkerStore struct {
	db     *badger.DB
	ownsDB bool
}

// OpenBadgerMarkerStore opens (or creates) a BadgerDB at dir.
func OpenBadgerMarkerStore(dir string) (*BadgerMarkerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for session marker: %w", err)
	}
	return &BadgerMarkerStore{db: db, ownsDB: true}, nil
}

// NewBadgerMarkerStore wraps an already open database. Close leaves it open.
func NewBadgerMarkerStore(db *badger.DB) *BadgerMarkerStore {
	return &BadgerMarkerStore{db: db}
}

// SessionActive reports whether the marker for deviceID exists.
func (s *BadgerMarkerStore) SessionActive(_ context.Context, deviceID string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(markerKey(deviceID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get session marker: %w", err)
	}
	return true, nil
}

// Get returns the stored marker, or nil when absent.
func (s *BadgerMarkerStore) Get(_ context.Context, deviceID string) (*Marker, error) {
	var m Marker
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(markerKey(deviceID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session marker: %w", err)
	}
	return &m, nil
}

// SetSessionActive records the marker for deviceID.
func (s *BadgerMarkerStore) SetSessionActive(_ context.Context, deviceID string) error {
	data, err := json.Marshal(Marker{DeviceID: deviceID, SetAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal session marker: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(markerKey(deviceID), data); err != nil {
			return fmt.Errorf("set session marker: %w", err)
		}
		return nil
	})
}

// ClearSessionActive removes the marker for deviceID. Missing markers are not an error.
func (s *BadgerMarkerStore) ClearSessionActive(_ context.Context, deviceID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(markerKey(deviceID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session marker: %w", err)
		}
		return nil
	})
}

// Close closes the database if this store opened it.
func (s *BadgerMarkerStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

func markerKey(deviceID string) []byte {
	return []byte(markerKeyPrefix + deviceID)
}

// MemoryMarkerStore keeps markers in process memory.
type MemoryMarkerStore struct {
	mu      sync.RWMutex
	markers map[string]Marker
}

// NewMemoryMarkerStore creates an empty in-memory store.
func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{markers: make(map[string]Marker)}
}

// SessionActive reports whether the marker for deviceID exists.
func (s *MemoryMarkerStore) SessionActive(_ context.Context, deviceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.markers[deviceID]
	return ok, nil
}

// SetSessionActive records the marker for deviceID.
func (s *MemoryMarkerStore) SetSessionActive(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[deviceID] = Marker{DeviceID: deviceID, SetAt: time.Now().UTC()}
	return nil
}

// ClearSessionActive removes the marker for deviceID.
func (s *MemoryMarkerStore) ClearSessionActive(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, deviceID)
	return nil
}

// Close is a no-op.
func (s *MemoryMarkerStore) Close() error { return nil }
