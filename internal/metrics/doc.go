// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

// Package metrics holds the Prometheus collectors for the session client.
//
// Collectors are registered on the default registry via promauto and exposed
// by the local status server at /metrics.
package metrics
