// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

// Package services adapts the client's components to suture.Service.
//
// RunnerService wraps anything with RunWithContext (poller, heartbeat, push
// client). HTTPServerService wraps the local status server.
package services
