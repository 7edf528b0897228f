// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package events

import (
	"sync"
	"time"
)

// dedupEntry is a node in the window's recency list.
type dedupEntry struct {
	key       string
	expiresAt time.Time
	prev      *dedupEntry
	next      *dedupEntry
}

// dedupWindow is a bounded LRU of recently published keys with a TTL.
// Lookups, inserts and eviction are O(1).
type dedupWindow struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*dedupEntry
	head  *dedupEntry // head.next is most recent
	tail  *dedupEntry // tail.prev is least recent
}

func newDedupWindow(capacity int, ttl time.Duration) *dedupWindow {
	if capacity <= 0 {
		capacity = 256
	}
	w := &dedupWindow{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*dedupEntry, capacity),
		head:     &dedupEntry{},
		tail:     &dedupEntry{},
	}
	w.head.next = w.tail
	w.tail.prev = w.head
	return w
}

// seen reports whether key was recorded within the TTL. If not, it records
// key now. A zero TTL disables deduplication.
func (w *dedupWindow) seen(key string) bool {
	if w.ttl <= 0 {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if e, ok := w.items[key]; ok {
		if !now.After(e.expiresAt) {
			return true
		}
		w.remove(e)
	}

	e := &dedupEntry{key: key, expiresAt: now.Add(w.ttl)}
	w.pushFront(e)
	w.items[key] = e

	for len(w.items) > w.capacity {
		w.remove(w.tail.prev)
	}
	return false
}

func (w *dedupWindow) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Internal methods (lock held)

func (w *dedupWindow) pushFront(e *dedupEntry) {
	e.prev = w.head
	e.next = w.head.next
	w.head.next.prev = e
	w.head.next = e
}

func (w *dedupWindow) remove(e *dedupEntry) {
	if e == w.head || e == w.tail {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(w.items, e.key)
}
