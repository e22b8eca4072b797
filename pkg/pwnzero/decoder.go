// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import (
	"errors"
	"fmt"
)

// Decoder errors. Both are observability reports, not failures: the
// decoder discards the offending bytes and keeps decoding.
var (
	// ErrStrayByte reports a byte that is neither a parameter code nor a
	// frame mark while no frame is being collected.
	ErrStrayByte = errors.New("stray byte outside frame")

	// ErrFrameInterrupted reports a partial frame abandoned because a new
	// frame start arrived before the current one terminated.
	ErrFrameInterrupted = errors.New("frame interrupted by new frame start")
)

// Decoder implements the PwnZero frame assembler state machine.
//
// Frames complete on a NUL terminator, on ETX, or when the parameter's
// maximum argument length is reached; whichever comes first. Unrecognized
// bytes between frames are discarded, and a frame start seen mid-frame
// abandons the partial frame, so the decoder resynchronizes on the next
// parameter code after any malformed run.
type Decoder struct {
	state  int
	code   byte
	buffer []byte
}

// NewDecoder creates a new frame decoder in the idle state.
func NewDecoder() *Decoder {
	return &Decoder{
		state:  stateIdle,
		buffer: make([]byte, 0, MaxArgsLen),
	}
}

// Reset returns the decoder to the idle state, dropping any partial frame.
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.code = 0
	d.buffer = d.buffer[:0]
}

// Collecting reports whether a partial frame is being assembled.
func (d *Decoder) Collecting() bool {
	return d.state == stateCollecting
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed packet, or nil if no frame completed on this byte.
// Returns an error for discarded input; decoding continues regardless.
func (d *Decoder) DecodeByte(b byte) (*Packet, error) {
	switch d.state {
	case stateIdle:
		if KnownParam(b) {
			d.code = b
			d.buffer = d.buffer[:0]
			d.state = stateCollecting
			return nil, nil
		}
		// Frame marks and terminator tails between frames are expected
		// inter-frame bytes, not noise.
		if b == FrameStart || b == FrameEnd || b == Terminator {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: 0x%02X", ErrStrayByte, b)

	case stateCollecting:
		if b == Terminator || b == FrameEnd {
			return d.complete(), nil
		}
		if b == FrameStart {
			// Lost terminator upstream; drop the partial frame and let
			// the next code byte start fresh.
			code, collected := d.code, len(d.buffer)
			d.Reset()
			return nil, fmt.Errorf("%w: code 0x%02X after %d bytes", ErrFrameInterrupted, code, collected)
		}
		d.buffer = append(d.buffer, b)
		if len(d.buffer) >= MaxArgLen(d.code) {
			// Argument at capacity counts as a complete frame; trailing
			// bytes fall through as inter-frame input.
			return d.complete(), nil
		}
		return nil, nil

	default:
		d.Reset()
		return nil, fmt.Errorf("invalid decoder state: %d", d.state)
	}
}

// complete emits the collected frame and returns the decoder to idle.
func (d *Decoder) complete() *Packet {
	packet := NewPacket(d.code, d.buffer)
	d.Reset()
	return packet
}
