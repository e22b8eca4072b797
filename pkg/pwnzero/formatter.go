// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import "fmt"

// FormatPacket formats a packet into a human-readable string
func FormatPacket(p *Packet) string {
	timestamp := p.Timestamp().Format("15:04:05.000")
	name := FormatParamCode(p.Code())

	result := fmt.Sprintf("[%s] %s (0x%02X) len=%d\n", timestamp, name, p.Code(), len(p.Args()))
	result += formatArgs(p)

	return result
}

// FormatParamCode returns the human-readable name for a parameter code
func FormatParamCode(code byte) string {
	switch code {
	case ParamFace:
		return "FACE"
	case ParamName:
		return "NAME"
	case ParamChannel:
		return "CHANNEL"
	case ParamAPs:
		return "APS"
	case ParamUptime:
		return "UPTIME"
	case ParamFriend:
		return "FRIEND"
	case ParamMode:
		return "MODE"
	case ParamHandshakes:
		return "HANDSHAKES"
	case ParamMessage:
		return "MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// formatArgs renders the packet argument in parameter-specific form
func formatArgs(p *Packet) string {
	switch p.Code() {
	case ParamFace:
		if len(p.Args()) == 0 {
			return "  (no argument)\n"
		}
		face := FaceFromWire(p.Arg0())
		if glyph := face.Glyph(); glyph != "" {
			return fmt.Sprintf("  Face: %s %s (wire %d)\n", face, glyph, p.Arg0())
		}
		return fmt.Sprintf("  Face: %s (wire %d)\n", face, p.Arg0())

	case ParamMode:
		if len(p.Args()) == 0 {
			return "  (no argument)\n"
		}
		return fmt.Sprintf("  Mode: %s (0x%02X)\n", DecodeMode(p.Arg0()), p.Arg0())

	case ParamFriend:
		return "  (reserved parameter, ignored)\n"

	case ParamName:
		return fmt.Sprintf("  Hostname: %q\n", decodeText(p.Args(), MaxHostnameLen))
	case ParamChannel:
		return fmt.Sprintf("  Channel: %q\n", decodeText(p.Args(), MaxChannelLen))
	case ParamAPs:
		return fmt.Sprintf("  APs: %q\n", decodeText(p.Args(), MaxAPsLen))
	case ParamUptime:
		return fmt.Sprintf("  Uptime: %q\n", decodeText(p.Args(), MaxUptimeLen))
	case ParamHandshakes:
		return fmt.Sprintf("  Handshakes: %q\n", decodeText(p.Args(), MaxHandshakesLen))
	case ParamMessage:
		return fmt.Sprintf("  Message: %q\n", decodeText(p.Args(), MaxMessageLen))
	}

	if len(p.Args()) == 0 {
		return "  (no argument)\n"
	}
	return fmt.Sprintf("  Args: % X\n", p.Args())
}

// FormatSnapshot renders a status snapshot as an aligned text block
func FormatSnapshot(snap StatusSnapshot) string {
	face := Face(snap.Face)

	result := fmt.Sprintf("Face:        %s %s\n", face.Glyph(), face)
	result += fmt.Sprintf("Hostname:    %s\n", snap.Hostname)
	result += fmt.Sprintf("Channel:     %s\n", snap.Channel)
	result += fmt.Sprintf("APs:         %s\n", snap.APs)
	result += fmt.Sprintf("Uptime:      %s\n", snap.Uptime)
	result += fmt.Sprintf("Mode:        %s\n", snap.Mode)
	result += fmt.Sprintf("Handshakes:  %s\n", snap.Handshakes)
	result += fmt.Sprintf("Message:     %s\n", snap.Message)

	return result
}
