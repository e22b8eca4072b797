// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

// Command builder functions create wire frames ready for transmission.
// These are convenience wrappers around EncodeCommand that enforce the
// per-field argument maxima a companion display expects.

// NewFaceCommand creates a FACE frame (0x04).
// Face identifiers outside the catalog are clamped to the wire range.
func NewFaceCommand(f Face) []byte {
	return EncodeCommand(ParamFace, []byte{f.Wire()})
}

// NewNameCommand creates a NAME frame (0x05).
// Hostnames longer than MaxHostnameLen bytes are truncated.
func NewNameCommand(hostname string) []byte {
	return EncodeCommand(ParamName, clampText(hostname, MaxHostnameLen))
}

// NewChannelCommand creates a CHANNEL frame (0x06).
// The channel is free text, usually a number or "*" for all channels.
func NewChannelCommand(channel string) []byte {
	return EncodeCommand(ParamChannel, clampText(channel, MaxChannelLen))
}

// NewAPsCommand creates an APS frame (0x07).
// The producer renders the counter as "current (total)".
func NewAPsCommand(aps string) []byte {
	return EncodeCommand(ParamAPs, clampText(aps, MaxAPsLen))
}

// NewUptimeCommand creates an UPTIME frame (0x08).
// The producer renders uptime as "HH:MM:SS".
func NewUptimeCommand(uptime string) []byte {
	return EncodeCommand(ParamUptime, clampText(uptime, MaxUptimeLen))
}

// NewFriendCommand creates a FRIEND frame (0x09).
// The parameter is reserved; consumers ignore it.
func NewFriendCommand() []byte {
	return EncodeCommand(ParamFriend, nil)
}

// NewModeCommand creates a MODE frame (0x0A).
// Mode values: ModeManual (0x04), ModeAuto (0x05), ModeAI (0x06).
func NewModeCommand(m Mode) []byte {
	return EncodeCommand(ParamMode, []byte{EncodeMode(m)})
}

// NewHandshakesCommand creates a HANDSHAKES frame (0x0B).
// The producer renders the counter as "current (total)".
func NewHandshakesCommand(handshakes string) []byte {
	return EncodeCommand(ParamHandshakes, clampText(handshakes, MaxHandshakesLen))
}

// NewMessageCommand creates a MESSAGE frame (0x0C).
// Messages longer than MaxMessageLen bytes are truncated.
func NewMessageCommand(message string) []byte {
	return EncodeCommand(ParamMessage, clampText(message, MaxMessageLen))
}

// clampText converts text to argument bytes capped at max.
func clampText(s string, max int) []byte {
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
	}
	return b
}
