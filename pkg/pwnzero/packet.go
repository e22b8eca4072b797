// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import "time"

// Packet represents one decoded PwnZero command: a parameter code and its
// argument bytes.
type Packet struct {
	code      byte
	args      []byte
	timestamp time.Time
}

// NewPacket creates a packet with the given code and arguments. The
// argument slice is copied so the packet owns its bytes.
func NewPacket(code byte, args []byte) *Packet {
	owned := make([]byte, len(args))
	copy(owned, args)
	return &Packet{
		code:      code,
		args:      owned,
		timestamp: time.Now(),
	}
}

// Code returns the packet's parameter code.
func (p *Packet) Code() byte {
	return p.code
}

// Args returns the packet's argument bytes.
func (p *Packet) Args() []byte {
	return p.args
}

// Arg0 returns the first argument byte, or 0x00 when the packet carries
// no arguments. The zero fallback matches the producer-side contract for
// single-byte parameters: an absent argument reads as NUL.
func (p *Packet) Arg0() byte {
	if len(p.args) == 0 {
		return 0x00
	}
	return p.args[0]
}

// Timestamp returns the packet's decode timestamp.
func (p *Packet) Timestamp() time.Time {
	return p.timestamp
}

// IsText reports whether the packet's code carries a text argument.
func (p *Packet) IsText() bool {
	switch p.code {
	case ParamName, ParamChannel, ParamAPs, ParamUptime, ParamHandshakes, ParamMessage:
		return true
	default:
		return false
	}
}
