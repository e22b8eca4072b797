// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import (
	"sync"
	"sync/atomic"
)

// ByteSink is a bounded, thread-safe byte queue between an asynchronous
// producer (the transport read loop) and a single draining consumer.
//
// Push never blocks: when the sink is full the new byte is dropped and
// counted. Dropping the newest byte is safe here because the frame
// decoder resynchronizes on the next parameter code; the loss is stale
// telemetry, not protocol corruption. Bytes that are retained reach the
// consumer in arrival order.
type ByteSink struct {
	ch        chan byte
	done      chan struct{}
	closeOnce sync.Once
	pushed    atomic.Uint64
	dropped   atomic.Uint64
}

// NewByteSink creates a sink with the given capacity. Capacities below 1
// fall back to DefaultSinkCapacity.
func NewByteSink(capacity int) *ByteSink {
	if capacity < 1 {
		capacity = DefaultSinkCapacity
	}
	return &ByteSink{
		ch:   make(chan byte, capacity),
		done: make(chan struct{}),
	}
}

// Push offers one byte to the sink without blocking. It returns false
// when the byte was dropped, either because the sink is full or closed.
func (s *ByteSink) Push(b byte) bool {
	select {
	case <-s.done:
		s.dropped.Add(1)
		return false
	default:
	}

	select {
	case s.ch <- b:
		s.pushed.Add(1)
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// PushBytes pushes each byte of p in order and returns how many were
// accepted.
func (s *ByteSink) PushBytes(p []byte) int {
	accepted := 0
	for _, b := range p {
		if s.Push(b) {
			accepted++
		}
	}
	return accepted
}

// Drain copies pending bytes into buf without blocking and returns how
// many were copied. Call repeatedly until it returns 0 to empty the sink.
// Drain keeps working after Close so residual bytes can be recovered.
func (s *ByteSink) Drain(buf []byte) int {
	n := 0
	for n < len(buf) {
		select {
		case b := <-s.ch:
			buf[n] = b
			n++
		default:
			return n
		}
	}
	return n
}

// Len returns the number of buffered bytes.
func (s *ByteSink) Len() int {
	return len(s.ch)
}

// Cap returns the sink's capacity.
func (s *ByteSink) Cap() int {
	return cap(s.ch)
}

// Pushed returns the total number of bytes accepted.
func (s *ByteSink) Pushed() uint64 {
	return s.pushed.Load()
}

// Dropped returns the total number of bytes rejected.
func (s *ByteSink) Dropped() uint64 {
	return s.dropped.Load()
}

// Close stops the sink. Subsequent pushes are dropped; buffered bytes
// remain drainable. Close is idempotent.
func (s *ByteSink) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done returns a channel closed when the sink is closed.
func (s *ByteSink) Done() <-chan struct{} {
	return s.done
}
