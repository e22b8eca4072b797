// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

// Package pwnzero provides a Go implementation of the PwnZero serial status
// protocol.
//
// PwnZero is the one-way UART protocol a Pwnagotchi's PwnZero plugin uses to
// mirror its on-screen status (face, hostname, channel, access points,
// uptime, handshakes, mode, message) onto a companion display device. This
// package provides frame decoding, status application, bounded byte/command
// queues, and a single-worker drain pipeline.
//
// The wire carries no checksum and no length field: each command is an
// optional STX, a parameter code, argument bytes, and a terminator (NUL,
// ETX, or the parameter's maximum argument length).
package pwnzero

// Protocol framing bytes
const (
	FrameStart = 0x02 // STX, sent by the producer before each command
	FrameEnd   = 0x03 // ETX, sent by the producer after each command
	Terminator = 0x00 // NUL, ends a text argument
)

// Parameter codes
const (
	ParamFace       = 0x04
	ParamName       = 0x05
	ParamChannel    = 0x06
	ParamAPs        = 0x07
	ParamUptime     = 0x08
	ParamFriend     = 0x09 // reserved, applying it is a no-op
	ParamMode       = 0x0A
	ParamHandshakes = 0x0B
	ParamMessage    = 0x0C
)

// Per-field maximum argument lengths. Text fields are sized for the
// companion's 21-column status layout; single-byte parameters carry
// exactly one argument.
const (
	MaxFaceLen       = 1
	MaxHostnameLen   = 10
	MaxChannelLen    = 3
	MaxAPsLen        = 12
	MaxUptimeLen     = 11
	MaxFriendLen     = 1
	MaxModeLen       = 1
	MaxHandshakesLen = 13
	MaxMessageLen    = 101

	// MaxArgsLen is the largest per-code maximum, bounding the decoder's
	// argument buffer.
	MaxArgsLen = MaxMessageLen
)

// Face wire encoding. The producer reserves values at or below ETX, so
// face ids are carried shifted up by FaceOffset.
const (
	FaceOffset  = 4
	FaceWireMin = 4  // NO_FACE on the wire
	FaceWireMax = 30 // UPLOAD2 on the wire
	FaceMaxID   = FaceWireMax - FaceOffset
)

// Default container capacities
const (
	DefaultSinkCapacity  = 2048
	DefaultQueueCapacity = 32
)

// Decoder states (internal)
const (
	stateIdle = iota
	stateCollecting
)

// Mode represents the agent's operating mode.
type Mode int

// Operating mode values as decoded from a MODE argument byte.
const (
	ModeManual Mode = iota
	ModeAuto
	ModeAI
)

// Mode argument bytes on the wire
const (
	modeWireManual = 0x04
	modeWireAuto   = 0x05
	modeWireAI     = 0x06
)

// EncodeMode maps a Mode to its MODE argument byte. Unrecognized modes
// encode as manual.
func EncodeMode(m Mode) byte {
	switch m {
	case ModeAuto:
		return modeWireAuto
	case ModeAI:
		return modeWireAI
	default:
		return modeWireManual
	}
}

// DecodeMode maps a MODE argument byte to a Mode. Unknown values decode
// to ModeManual; the producer only ever sends the three known bytes.
func DecodeMode(b byte) Mode {
	switch b {
	case modeWireManual:
		return ModeManual
	case modeWireAuto:
		return ModeAuto
	case modeWireAI:
		return ModeAI
	default:
		return ModeManual
	}
}

// String returns the mode's display name.
func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "MANU"
	case ModeAuto:
		return "AUTO"
	case ModeAI:
		return "AI"
	default:
		return "MANU"
	}
}

// KnownParam reports whether b is a recognized parameter code.
func KnownParam(b byte) bool {
	return b >= ParamFace && b <= ParamMessage
}

// MaxArgLen returns the maximum argument length for a parameter code.
// Unknown codes return 0; the decoder never collects for them.
func MaxArgLen(code byte) int {
	switch code {
	case ParamFace:
		return MaxFaceLen
	case ParamName:
		return MaxHostnameLen
	case ParamChannel:
		return MaxChannelLen
	case ParamAPs:
		return MaxAPsLen
	case ParamUptime:
		return MaxUptimeLen
	case ParamFriend:
		return MaxFriendLen
	case ParamMode:
		return MaxModeLen
	case ParamHandshakes:
		return MaxHandshakesLen
	case ParamMessage:
		return MaxMessageLen
	default:
		return 0
	}
}
