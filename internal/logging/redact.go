// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package logging

import "strings"

// RedactSecret masks an API key or other credential for log output.
// Keys of 12 characters or more keep their first and last 4 characters.
//
//	RedactSecret("lm_abcdef123456") // "lm_a...3456"
func RedactSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) < 12 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// ShortDeviceID truncates a device fingerprint to 8 characters. Device ids
// are not secret, but full values make log lines hard to scan.
func ShortDeviceID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
