// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

// Package push receives the backend's real-time session notifications over a
// websocket and forwards revocations to a Sink.
//
// Frames are JSON objects of the form {"type": "...", "data": {...}}:
//
//	UserSessionRevoked   {"deviceId": "...", "sessionType": "authenticated"|"guest"}
//	UserSessionsCleared  {}
//	GuestSessionRevoked  {"deviceId": "..."}
//	KeepAlive            {}
//
// The connection is re-established with exponential backoff (1s doubling to
// 32s) until the context passed to RunWithContext is canceled.
package push
