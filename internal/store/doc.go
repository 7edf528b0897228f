// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

// Package store persists the "authenticated session was active" marker.
//
// The marker lets the client notice that its local state was wiped while the
// backend still considers the device authenticated, and force a fresh login
// instead of trusting the server-side auto-restore. The API key itself is
// never written here.
package store
