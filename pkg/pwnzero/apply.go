// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownCode reports a packet whose parameter code has no applier.
// The decoder only emits known codes, so this surfaces hand-built packets.
var ErrUnknownCode = errors.New("unknown parameter code")

// Apply folds one packet into the status and reports whether any field
// changed. Friend packets are reserved and never report an update. Face
// identifiers are clamped at zero; text arguments are truncated to the
// field maximum and cut at the first NUL.
func (s *Status) Apply(p *Packet) (bool, error) {
	if p == nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	switch p.Code() {
	case ParamFace:
		id := int(FaceFromWire(p.Arg0()))
		changed = id != s.face
		s.face = id
	case ParamName:
		text := decodeText(p.Args(), MaxHostnameLen)
		changed = text != s.hostname
		s.hostname = text
	case ParamChannel:
		text := decodeText(p.Args(), MaxChannelLen)
		changed = text != s.channel
		s.channel = text
	case ParamAPs:
		text := decodeText(p.Args(), MaxAPsLen)
		changed = text != s.aps
		s.aps = text
	case ParamUptime:
		text := decodeText(p.Args(), MaxUptimeLen)
		changed = text != s.uptime
		s.uptime = text
	case ParamFriend:
		return false, nil
	case ParamMode:
		mode := DecodeMode(p.Arg0())
		changed = mode != s.mode
		s.mode = mode
	case ParamHandshakes:
		text := decodeText(p.Args(), MaxHandshakesLen)
		changed = text != s.handshakes
		s.handshakes = text
	case ParamMessage:
		text := decodeText(p.Args(), MaxMessageLen)
		changed = text != s.message
		s.message = text
	default:
		return false, fmt.Errorf("%w: 0x%02X", ErrUnknownCode, p.Code())
	}

	if changed {
		s.lastUpdate = time.Now()
		s.applied++
	}
	return changed, nil
}

// decodeText converts raw argument bytes to a field value. The input is
// truncated to max bytes and cut at the first NUL terminator. Applying
// decodeText to its own output returns the output unchanged.
func decodeText(args []byte, max int) string {
	if len(args) > max {
		args = args[:max]
	}
	for i, b := range args {
		if b == Terminator {
			return string(args[:i])
		}
	}
	return string(args)
}
