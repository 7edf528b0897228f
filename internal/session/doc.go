// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

/*
Package session implements the client-side authentication state machine.

A Manager owns the single {mode, checked, upgrading, credential} record for
one device and is the only thing that writes it. Modes are mutually
exclusive:

	unauthenticated  no credential, no guest grant
	guest            time-boxed access granted by the backend
	expired          a guest grant lapsed or was revoked
	authenticated    the device holds a registered API key

Transitions:

	CheckAuth          adopt the backend's view (guest keeps its local decision)
	StartGuestMode     backend registration first, then -> guest
	ExpireGuestMode    -> expired, notifies OnGuestExpired observers
	ExitGuestMode      guest/expired -> unauthenticated
	Register           -> authenticated, guarded by the upgrade flag
	Logout             -> unauthenticated once the backend confirms
	RegenerateAPIKey   authenticated -> unauthenticated
	HandleUnauthorized -> unauthenticated (idempotent, no-op while upgrading)

Concurrency: one mutex guards the record and is never held across a network
call. Every transition bumps an epoch; a CheckAuth response that started under
an older epoch, or lands while an upgrade is in flight, is discarded.

Notifications go out through an events.Publisher after the lock is released.
The API key lives only in memory; the durable MarkerStore holds just a
"session was active" flag.
*/
package session
