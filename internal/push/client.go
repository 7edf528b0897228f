// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/metrics"
)

const (
	// source is reported to the Sink for every forwarded notification.
	source = "push"

	sessionTypeAuthenticated = "authenticated"
	sessionTypeGuest         = "guest"
)

// Config holds connection settings. Zero durations take defaults.
type Config struct {
	URL      string
	DeviceID string

	HandshakeTimeout time.Duration // default 10s
	ReadTimeout      time.Duration // default 60s
	PingInterval     time.Duration // default 30s
	MinBackoff       time.Duration // default 1s
	MaxBackoff       time.Duration // default 32s
}

func (c *Config) applyDefaults() {
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.MinBackoff <= 0 {
		c.MinBackoff = 1 * time.Second
	}
	if c.MaxBackoff < c.MinBackoff {
		c.MaxBackoff = 32 * time.Second
		if c.MaxBackoff < c.MinBackoff {
			c.MaxBackoff = c.MinBackoff
		}
	}
}

// Client is a reconnecting websocket consumer.
type Client struct {
	cfg    Config
	sink   Sink
	dialer websocket.Dialer

	connMu sync.RWMutex
	conn   *websocket.Conn
}

// NewClient creates a push Client.
func NewClient(cfg Config, sink Sink) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("push: url is required")
	}
	if sink == nil {
		return nil, errors.New("push: sink is required")
	}
	cfg.applyDefaults()
	return &Client{
		cfg:  cfg,
		sink: sink,
		dialer: websocket.Dialer{
			HandshakeTimeout:  cfg.HandshakeTimeout,
			EnableCompression: true,
		},
	}, nil
}

// RunWithContext connects and consumes frames until ctx is canceled,
// reconnecting on every failure. The backoff resets only after a connection
// delivered at least one frame, so a server that accepts and drops at once
// is retried at the growing delay.
func (c *Client) RunWithContext(ctx context.Context) error {
	delay := c.cfg.MinBackoff

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := c.connect(ctx)
		if err == nil {
			if c.serve(ctx, conn) {
				delay = c.cfg.MinBackoff
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Accepted and dropped before any frame arrived.
			logging.Warn().Dur("retry_in", delay).Msg("[push] Connection dropped before first message")
		} else {
			logging.Warn().Err(err).Dur("retry_in", delay).Msg("[push] Connect failed")
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
		if delay > c.cfg.MaxBackoff {
			delay = c.cfg.MaxBackoff
		}
	}
}

// connect dials the endpoint, announcing the device id on the handshake.
func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if c.cfg.DeviceID != "" {
		header.Set("X-Device-Id", c.cfg.DeviceID)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	metrics.PushConnected.Set(1)

	logging.Info().Str("url", c.cfg.URL).Msg("[push] Connected")
	return conn, nil
}

// serve reads frames until the connection fails or ctx is canceled. It
// reports whether at least one frame was received.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) (received bool) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.pingLoop(ctx, conn, done)
	}()

	defer func() {
		close(done)
		c.closeConnection()
		wg.Wait()
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	})

	for {
		if err := conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
			logging.Debug().Err(err).Msg("[push] Failed to set read deadline")
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			switch {
			case ctx.Err() != nil:
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				logging.Info().Msg("[push] Connection closed by server")
			default:
				logging.Warn().Err(err).Msg("[push] Read error")
			}
			return received
		}

		received = true
		c.handleMessage(data)
	}
}

// pingLoop sends control pings and unblocks the reader when ctx ends.
func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			c.closeConnection()
			return
		case <-ticker.C:
			// WriteControl may run concurrently with the reader.
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				logging.Debug().Err(err).Msg("[push] Ping failed")
				c.closeConnection()
				return
			}
		}
	}
}

// handleMessage decodes one frame and forwards it to the sink.
func (c *Client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logging.Warn().Err(err).Msg("[push] Failed to parse message")
		return
	}
	metrics.PushMessages.WithLabelValues(msg.Type).Inc()

	switch msg.Type {
	case TypeUserSessionRevoked:
		var d RevokedData
		if err := decodeData(msg.Data, &d); err != nil {
			logging.Warn().Err(err).Msg("[push] Malformed revocation")
			return
		}
		if d.SessionType == "" {
			d.SessionType = sessionTypeAuthenticated
		}
		c.sink.HandleSessionRevoked(d.DeviceID, d.SessionType, source)

	case TypeGuestSessionRevoked:
		var d RevokedData
		if err := decodeData(msg.Data, &d); err != nil {
			logging.Warn().Err(err).Msg("[push] Malformed guest revocation")
			return
		}
		c.sink.HandleSessionRevoked(d.DeviceID, sessionTypeGuest, source)

	case TypeUserSessionsCleared:
		c.sink.HandleSessionsCleared(source)

	case TypeKeepAlive:

	default:
		logging.Debug().Str("type", msg.Type).Msg("[push] Unknown message type")
	}
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("missing data")
	}
	return json.Unmarshal(raw, v)
}

// closeConnection closes the active connection, if any.
func (c *Client) closeConnection() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(1*time.Second),
	)

	if err := c.conn.Close(); err != nil {
		logging.Debug().Err(err).Msg("[push] Failed to close connection")
	}
	c.conn = nil
	metrics.PushConnected.Set(0)
}

// IsConnected reports whether a connection is currently open.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.conn != nil
}

// String implements fmt.Stringer for supervisor logs.
func (c *Client) String() string { return "push-client" }
