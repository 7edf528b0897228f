// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

// Package logging provides the zerolog-based global logger used by every
// component of the session client.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("mode", "guest").Msg("[session] Guest mode started")
//	logging.Warn().Err(err).Msg("[liveness] Session list unavailable")
//	logging.Ctx(ctx).Debug().Msg("[transport] Request sent")
//
// # Configuration
//
// Environment Variables (read at package init, overridden by Init):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//
// # Conventions
//
// Messages carry a bracketed component prefix ([session], [transport],
// [liveness], [push], [events], [api]) and structured fields instead of
// formatted strings. Credentials are never logged in clear; use RedactSecret.
// Device ids are shortened with ShortDeviceID.
//
// # slog Adapter
//
// NewSlogLogger bridges to log/slog for sutureslog and watermill:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Testing
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
package logging
