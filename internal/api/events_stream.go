// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkOrigin admits non-browser clients (no Origin header) and browsers whose
// origin is in the CORS allow list.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("[api] Event stream rejected from unauthorized origin")
	return false
}

// parseTypes reads the comma-separated ?types= filter. Unknown names are
// reported as ok=false.
func parseTypes(raw string) ([]events.Type, bool) {
	if raw == "" {
		return nil, true
	}
	known := make(map[events.Type]bool, len(events.AllTypes))
	for _, t := range events.AllTypes {
		known[t] = true
	}
	var out []events.Type
	for _, part := range strings.Split(raw, ",") {
		t := events.Type(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if !known[t] {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

// Events upgrades to a websocket and streams bus events as JSON frames
// until either side closes.
//
// @Summary Event stream
// @Description Upgrades to a websocket and sends each bus event as a JSON text frame.
// @Description The optional types parameter filters by event type.
// @Tags Events
// @Produce json
// @Param types query string false "Comma-separated event types, e.g. user-session-revoked,auth-state-changed"
// @Success 101 {object} events.Event "Switching protocols; frames carry events"
// @Failure 400 {object} apiError "Unknown event type in filter"
// @Failure 503 {object} apiError "Event stream unavailable"
// @Router /api/events [get]
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		respondError(w, http.StatusServiceUnavailable, "EVENTS_UNAVAILABLE", "Event stream is not enabled")
		return
	}
	types, ok := parseTypes(r.URL.Query().Get("types"))
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown event type in types filter")
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Debug().Err(err).Msg("[api] Event stream upgrade failed")
		return
	}

	// The request context is not canceled for hijacked connections.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := h.events.Subscribe(ctx, types...)
	if err != nil {
		logging.Warn().Err(err).Msg("[api] Event subscription failed")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription failed"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go readPump(conn, cancel)
	writePump(conn, stream)
}

// readPump discards client frames and cancels the stream when the peer goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Msg("[api] Event stream closed unexpectedly")
			}
			return
		}
	}
}

// writePump forwards events and pings until the stream closes.
func writePump(conn *websocket.Conn, stream <-chan events.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case e, ok := <-stream:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
