// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import (
	"sync"
	"time"
)

// Status is the live mirror of the Pwnagotchi state. A single instance
// is mutated in place by Apply; every read goes through the lock so a
// concurrent renderer never observes a torn value.
type Status struct {
	mu         sync.RWMutex
	face       int
	hostname   string
	channel    string
	aps        string
	uptime     string
	mode       Mode
	handshakes string
	message    string
	lastUpdate time.Time
	applied    uint64
}

// StatusSnapshot is a consistent copy of a Status taken under its lock.
type StatusSnapshot struct {
	Face       int
	Hostname   string
	Channel    string
	APs        string
	Uptime     string
	Mode       Mode
	Handshakes string
	Message    string
	LastUpdate time.Time
	Applied    uint64
}

// NewStatus creates a Status with zero state: face 0, empty text fields,
// manual mode.
func NewStatus() *Status {
	return &Status{}
}

// Snapshot returns a copy of the full state captured atomically.
func (s *Status) Snapshot() StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatusSnapshot{
		Face:       s.face,
		Hostname:   s.hostname,
		Channel:    s.channel,
		APs:        s.aps,
		Uptime:     s.uptime,
		Mode:       s.mode,
		Handshakes: s.handshakes,
		Message:    s.message,
		LastUpdate: s.lastUpdate,
		Applied:    s.applied,
	}
}

// Face returns the current face identifier.
func (s *Status) Face() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.face
}

// Hostname returns the device hostname.
func (s *Status) Hostname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hostname
}

// Channel returns the WiFi channel indicator.
func (s *Status) Channel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channel
}

// APs returns the access point counter text.
func (s *Status) APs() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aps
}

// Uptime returns the device uptime text.
func (s *Status) Uptime() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uptime
}

// Mode returns the operating mode.
func (s *Status) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Handshakes returns the handshake counter text.
func (s *Status) Handshakes() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handshakes
}

// Message returns the status message line.
func (s *Status) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// LastUpdate returns the time of the last state-changing Apply. The zero
// time means no packet has changed state yet.
func (s *Status) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// Applied returns the number of packets that changed state.
func (s *Status) Applied() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}
