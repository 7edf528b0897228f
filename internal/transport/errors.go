// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeGuestSessionRevoked is the 401 body code the backend sends when the
// guest session for this device was revoked or lapsed.
const CodeGuestSessionRevoked = "GUEST_SESSION_REVOKED"

var (
	// ErrUnauthorized reports a 401 from the backend: the held credential
	// (if any) is no longer valid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrGuestSessionRevoked is the distinguished 401 for a revoked guest session.
	ErrGuestSessionRevoked = errors.New("guest session revoked")

	// ErrNetwork wraps failures where no response reached the client.
	ErrNetwork = errors.New("network failure")

	// ErrCircuitOpen is returned by breaker-protected calls while the breaker
	// refuses requests.
	ErrCircuitOpen = errors.New("backend circuit open")
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Code       string // machine-readable code from the body, if any
	Message    string // human-readable message from the body, if any

	kind error
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, msg)
}

// Unwrap exposes ErrUnauthorized or ErrGuestSessionRevoked for 401 responses.
func (e *StatusError) Unwrap() error {
	return e.kind
}

// IsUnauthorized reports whether err is any flavour of 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrGuestSessionRevoked)
}

// MessageOf extracts the most useful human-readable message from err.
func MessageOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if errors.Is(err, ErrNetwork) {
		return "Unable to reach the server"
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func newStatusError(endpoint string, status int, body errorBody) *StatusError {
	se := &StatusError{
		Endpoint:   endpoint,
		StatusCode: status,
		Code:       body.Code,
		Message:    body.message(),
	}
	if status == http.StatusUnauthorized {
		if body.Code == CodeGuestSessionRevoked {
			se.kind = ErrGuestSessionRevoked
		} else {
			se.kind = ErrUnauthorized
		}
	}
	return se
}
