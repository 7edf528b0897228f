// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

// Package identity derives the stable device fingerprint that the backend
// uses both as the authenticated-device key and as the guest-session key.
package identity

import (
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// fallbackSeed is hashed when no environment signal is available at all.
const fallbackSeed = "lancache-manager/unknown-device"

// idLength is the number of hex characters kept from the digest.
const idLength = 32

// Signals are the environment characteristics a fingerprint is built from.
// Any field may be empty when the signal is unavailable.
type Signals struct {
	Hostname  string
	OS        string
	Arch      string
	Username  string
	HomeDir   string
	MachineID string
	Locale    string
	Timezone  string
	Client    string // client name and version, e.g. "lancache-session/1.4.0"
}

// Source supplies fingerprint signals. Tests substitute fixed values.
type Source interface {
	Signals() Signals
}

// SourceFunc adapts a function to Source.
type SourceFunc func() Signals

// Signals implements Source.
func (f SourceFunc) Signals() Signals { return f() }

// DeviceInfo describes the device in registration request bodies.
type DeviceInfo struct {
	DeviceName      string `json:"deviceName"`
	OperatingSystem string `json:"operatingSystem"`
	Browser         string `json:"browser"`
}

// Provider computes the device id once and caches it for its lifetime.
type Provider struct {
	source     Source
	deviceName string

	once    sync.Once
	signals Signals
	id      string
}

// NewProvider creates a Provider. deviceName, when non-empty, overrides the
// hostname in Describe.
func NewProvider(source Source, deviceName string) *Provider {
	return &Provider{source: source, deviceName: deviceName}
}

// DeviceID returns the device fingerprint. Deterministic for equal signals;
// never fails.
func (p *Provider) DeviceID() string {
	p.load()
	return p.id
}

// Describe returns the human-readable device description.
func (p *Provider) Describe() DeviceInfo {
	p.load()
	name := p.deviceName
	if name == "" {
		name = p.signals.Hostname
	}
	if name == "" {
		name = "Unknown device"
	}
	osName := p.signals.OS
	if osName == "" {
		osName = "unknown"
	}
	client := p.signals.Client
	if client == "" {
		client = "lancache-session"
	}
	return DeviceInfo{DeviceName: name, OperatingSystem: osName, Browser: client}
}

func (p *Provider) load() {
	p.once.Do(func() {
		if p.source != nil {
			p.signals = p.source.Signals()
		}
		p.id = Fingerprint(p.signals)
	})
}

// Fingerprint hashes the canonical form of s. The client version is left out
// so that upgrading the client keeps the same device id.
func Fingerprint(s Signals) string {
	parts := map[string]string{
		"host":    s.Hostname,
		"os":      s.OS,
		"arch":    s.Arch,
		"user":    s.Username,
		"home":    s.HomeDir,
		"machine": s.MachineID,
		"locale":  s.Locale,
		"tz":      s.Timezone,
	}

	keys := make([]string, 0, len(parts))
	for k, v := range parts {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.TrimSpace(parts[k]))
		b.WriteByte('\n')
	}
	canonical := b.String()
	if canonical == "" {
		canonical = fallbackSeed
	}

	sum := blake2b.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:idLength]
}
