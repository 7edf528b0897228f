// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/metrics"
)

// DefaultDedupWindow collapses poller and push deliveries of the same revocation.
const DefaultDedupWindow = 5 * time.Second

// ErrBusClosed is returned by Subscribe after Close.
var ErrBusClosed = errors.New("event bus closed")

// Config configures a Bus.
type Config struct {
	DedupWindow   time.Duration
	DedupCapacity int
	BufferSize    int64
	Logger        watermill.LoggerAdapter
}

// Bus fans notifications out to in-process subscribers over a watermill
// gochannel pub/sub, one topic per event type.
type Bus struct {
	pubsub *gochannel.GoChannel
	dedup  *dedupWindow

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a Bus.
func NewBus(cfg Config) *Bus {
	logger := cfg.Logger
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger())
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 64
	}

	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: buffer,
		}, logger),
		dedup: newDedupWindow(cfg.DedupCapacity, cfg.DedupWindow),
	}
}

// Publish emits e without waiting for subscribers. It returns false when
// the event was suppressed as a duplicate or could not be delivered.
func (b *Bus) Publish(e Event) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		metrics.EventsPublished.WithLabelValues(string(e.Type), "failed").Inc()
		return false
	}

	if e.deduplicated() && b.dedup.seen(e.dedupKey()) {
		metrics.EventsPublished.WithLabelValues(string(e.Type), "deduplicated").Inc()
		logging.Debug().Str("type", string(e.Type)).Str("source", e.Source).Msg("[events] Duplicate suppressed")
		return false
	}

	if e.At.IsZero() {
		e.At = time.Now()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(string(e.Type), "failed").Inc()
		logging.Error().Err(err).Str("type", string(e.Type)).Msg("[events] Failed to encode event")
		return false
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("source", e.Source)
	if err := b.pubsub.Publish(string(e.Type), msg); err != nil {
		metrics.EventsPublished.WithLabelValues(string(e.Type), "failed").Inc()
		logging.Warn().Err(err).Str("type", string(e.Type)).Msg("[events] Publish failed")
		return false
	}

	metrics.EventsPublished.WithLabelValues(string(e.Type), "published").Inc()
	return true
}

// Subscribe returns a channel receiving events of the given types (all types
// when none are given). The channel closes when ctx is done or the bus closes.
func (b *Bus) Subscribe(ctx context.Context, types ...Type) (<-chan Event, error) {
	if len(types) == 0 {
		types = AllTypes
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	sources := make([]<-chan *message.Message, 0, len(types))
	for _, t := range types {
		ch, err := b.pubsub.Subscribe(ctx, string(t))
		if err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", t, err)
		}
		sources = append(sources, ch)
	}

	out := make(chan Event, 16)
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src <-chan *message.Message) {
			defer wg.Done()
			forward(ctx, src, out)
		}(src)
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// forward decodes and acks messages until src closes.
func forward(ctx context.Context, src <-chan *message.Message, out chan<- Event) {
	for msg := range src {
		var e Event
		err := json.Unmarshal(msg.Payload, &e)
		msg.Ack()
		if err != nil {
			logging.Warn().Err(err).Msg("[events] Dropping undecodable event")
			continue
		}
		select {
		case out <- e:
		case <-ctx.Done():
			// Drain remaining messages so the pubsub is not blocked on acks.
			for m := range src {
				m.Ack()
			}
			return
		}
	}
}

// Close stops the bus and closes every subscription.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}
