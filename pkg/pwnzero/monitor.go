// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import "sync"

// drainChunkSize bounds how many bytes one Drain call moves at a time.
const drainChunkSize = 256

// MonitorConfig configures a Monitor. The zero value uses the default
// capacities and no callbacks.
type MonitorConfig struct {
	// SinkCapacity bounds the raw byte buffer between Feed and the
	// worker. Zero means DefaultSinkCapacity.
	SinkCapacity int

	// QueueCapacity bounds the decoded packet queue. Zero means
	// DefaultQueueCapacity.
	QueueCapacity int

	// OnUpdate fires at most once per drain cycle, after at least one
	// packet changed the status.
	OnUpdate func(StatusSnapshot)

	// OnPacket fires for every completed frame along with its
	// validation results.
	OnPacket func(*Packet, []ValidationError)

	// OnDecodeError fires for bytes the decoder rejected.
	OnDecodeError func(error)
}

// Monitor assembles the receive pipeline: a ByteSink fed from the
// transport, a Decoder, a CommandQueue, and a Status kept current by a
// single worker goroutine.
//
// Feed is the transport half and never blocks, so it is safe to call
// from a tight read loop. The worker sleeps until a byte arrives, then
// drains everything pending, decodes it, applies the resulting packets,
// and fires OnUpdate once if anything changed. All callbacks run on the
// worker goroutine.
type Monitor struct {
	sink    *ByteSink
	queue   *CommandQueue
	status  *Status
	decoder *Decoder

	mu    sync.Mutex
	stats *Statistics

	onUpdate      func(StatusSnapshot)
	onPacket      func(*Packet, []ValidationError)
	onDecodeError func(error)

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMonitor creates a monitor and starts its worker goroutine. Call
// Stop to shut it down.
func NewMonitor(cfg MonitorConfig) *Monitor {
	m := &Monitor{
		sink:          NewByteSink(cfg.SinkCapacity),
		queue:         NewCommandQueue(cfg.QueueCapacity),
		status:        NewStatus(),
		decoder:       NewDecoder(),
		stats:         NewStatistics(),
		onUpdate:      cfg.OnUpdate,
		onPacket:      cfg.OnPacket,
		onDecodeError: cfg.OnDecodeError,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go m.run()
	return m
}

// Feed offers transport bytes to the pipeline without blocking and
// returns how many were accepted. Bytes that do not fit are dropped and
// counted; call Dropped to observe the loss.
func (m *Monitor) Feed(p []byte) int {
	return m.sink.PushBytes(p)
}

// FeedByte offers a single byte to the pipeline without blocking.
func (m *Monitor) FeedByte(b byte) bool {
	return m.sink.Push(b)
}

// Status returns the live status record shared with the worker.
func (m *Monitor) Status() *Status {
	return m.status
}

// Snapshot returns a consistent copy of the current status.
func (m *Monitor) Snapshot() StatusSnapshot {
	return m.status.Snapshot()
}

// Stats returns a copy of the monitor's statistics.
func (m *Monitor) Stats() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.stats
}

// ResetStats zeroes the statistics counters.
func (m *Monitor) ResetStats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Reset()
}

// Dropped returns how many fed bytes were shed by the full sink.
func (m *Monitor) Dropped() uint64 {
	return m.sink.Dropped()
}

// Evicted returns how many decoded packets were shed by the full queue.
func (m *Monitor) Evicted() uint64 {
	return m.queue.Dropped()
}

// Stop closes the intake, waits for the worker to apply everything
// already fed, and returns once the worker has exited. Stop is
// idempotent.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		m.sink.Close()
		close(m.stop)
	})
	<-m.done
}

// run is the worker loop. One iteration per wake: consume the byte that
// woke us, drain the rest, then apply the decoded packets.
func (m *Monitor) run() {
	defer close(m.done)
	buf := make([]byte, drainChunkSize)
	for {
		select {
		case <-m.stop:
			// Final sweep for bytes fed before the intake closed.
			m.drain(buf)
			m.applyPending()
			return
		case b := <-m.sink.ch:
			m.consume(b)
			m.drain(buf)
			m.applyPending()
		}
	}
}

// drain empties the sink through the decoder.
func (m *Monitor) drain(buf []byte) {
	for {
		n := m.sink.Drain(buf)
		if n == 0 {
			return
		}
		for _, b := range buf[:n] {
			m.consume(b)
		}
	}
}

// consume pushes one byte through the decoder and queues any completed
// frame.
func (m *Monitor) consume(b byte) {
	packet, err := m.decoder.DecodeByte(b)
	if err != nil {
		m.mu.Lock()
		m.stats.Update(nil, err, nil)
		m.mu.Unlock()
		if m.onDecodeError != nil {
			m.onDecodeError(err)
		}
		return
	}
	if packet == nil {
		return
	}

	validationErrors := ValidatePacket(packet)
	m.mu.Lock()
	m.stats.Update(packet, nil, validationErrors)
	m.mu.Unlock()
	if m.onPacket != nil {
		m.onPacket(packet, validationErrors)
	}
	m.queue.Push(packet)
}

// applyPending folds every queued packet into the status and fires
// OnUpdate once if any of them changed it.
func (m *Monitor) applyPending() {
	packets := m.queue.PopAll()
	if len(packets) == 0 {
		return
	}

	anyChanged := false
	for _, p := range packets {
		changed, err := m.status.Apply(p)
		if err != nil {
			// Unknown codes cannot come out of the decoder.
			continue
		}
		m.mu.Lock()
		m.stats.RecordApply(changed)
		m.mu.Unlock()
		if changed {
			anyChanged = true
		}
	}

	if anyChanged && m.onUpdate != nil {
		m.onUpdate(m.status.Snapshot())
	}
}
