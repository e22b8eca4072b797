// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import "sync"

// CommandQueue is a bounded FIFO of decoded packets awaiting application.
//
// When the queue is full, Push evicts the oldest packet to make room for
// the newest. Status frames are snapshots of current device state, so the
// newest packet always supersedes older ones for the same parameter;
// keeping it and shedding the stalest is the lossy choice that converges
// fastest once the consumer catches up.
type CommandQueue struct {
	mu      sync.Mutex
	items   []*Packet
	limit   int
	dropped uint64
}

// NewCommandQueue creates a queue with the given capacity. Capacities
// below 1 fall back to DefaultQueueCapacity.
func NewCommandQueue(capacity int) *CommandQueue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	return &CommandQueue{
		items: make([]*Packet, 0, capacity),
		limit: capacity,
	}
}

// Push appends a packet, evicting the oldest entry when full. It returns
// false when an eviction happened.
func (q *CommandQueue) Push(p *Packet) bool {
	if p == nil {
		return true
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	evicted := false
	if len(q.items) >= q.limit {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
		q.dropped++
		evicted = true
	}
	q.items = append(q.items, p)
	return !evicted
}

// Pop removes and returns the oldest packet. The second return value is
// false when the queue is empty.
func (q *CommandQueue) Pop() (*Packet, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	p := q.items[0]
	copy(q.items, q.items[1:])
	q.items[len(q.items)-1] = nil
	q.items = q.items[:len(q.items)-1]
	return p, true
}

// PopAll removes and returns every pending packet in FIFO order. It
// returns nil when the queue is empty.
func (q *CommandQueue) PopAll() []*Packet {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	out := make([]*Packet, len(q.items))
	copy(out, q.items)
	for i := range q.items {
		q.items[i] = nil
	}
	q.items = q.items[:0]
	return out
}

// Pending reports whether at least one packet is queued.
func (q *CommandQueue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) > 0
}

// Len returns the number of queued packets.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns the total number of evicted packets.
func (q *CommandQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
