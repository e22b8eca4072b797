// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/copperline/gotchiscope/pkg/capture"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// ByteSource provides a common interface for reading the raw status
// stream from a serial port or a capture replay.
type ByteSource interface {
	io.Reader
	io.Closer
	Info() string
}

// SerialSource wraps a serial port
type SerialSource struct {
	port serial.Port
	name string
	baud int
}

func (s *SerialSource) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *SerialSource) Close() error {
	return s.port.Close()
}

func (s *SerialSource) Info() string {
	return fmt.Sprintf("Serial: %s @ %d baud", s.name, s.baud)
}

// OpenSerialSource opens a serial port in 8N1 mode
func OpenSerialSource(portName string, baudRate int) (*SerialSource, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", portName, err)
	}

	log.Debug().Str("port", portName).Int("baud", baudRate).Msg("serial port opened")
	return &SerialSource{port: port, name: portName, baud: baudRate}, nil
}

// ReplaySource streams the bytes of a capture file, sleeping between
// chunks so they arrive on the recorded timeline. A speed multiplier
// above 1 compresses the timeline; 0 disables pacing entirely. Read
// returns io.EOF when the capture is exhausted.
type ReplaySource struct {
	r     *capture.Reader
	path  string
	speed float64

	started   time.Time
	buf       []byte
	bufOffset int
}

// OpenReplaySource opens a capture file for paced replay
func OpenReplaySource(path string, speed float64) (*ReplaySource, error) {
	r, err := capture.Open(path)
	if err != nil {
		return nil, err
	}

	meta := r.Meta()
	log.Debug().
		Str("path", path).
		Str("port", meta.Port).
		Int("baud", meta.Baud).
		Time("recorded", meta.Start()).
		Float64("speed", speed).
		Msg("replay source opened")

	return &ReplaySource{r: r, path: path, speed: speed}, nil
}

func (s *ReplaySource) Read(p []byte) (int, error) {
	// Hand out buffered chunk data first
	if s.bufOffset < len(s.buf) {
		n := copy(p, s.buf[s.bufOffset:])
		s.bufOffset += n
		return n, nil
	}

	chunk, err := s.r.Next()
	if err != nil {
		return 0, err
	}

	// Pace against the wall clock so gaps between reads do not
	// accumulate drift.
	if s.started.IsZero() {
		s.started = time.Now()
	}
	if s.speed > 0 {
		target := s.started.Add(time.Duration(float64(chunk.Offset()) / s.speed))
		time.Sleep(time.Until(target))
	}

	s.buf = chunk.Data
	s.bufOffset = 0
	n := copy(p, s.buf)
	s.bufOffset = n
	return n, nil
}

func (s *ReplaySource) Close() error {
	return s.r.Close()
}

func (s *ReplaySource) Info() string {
	if s.speed == 0 {
		return fmt.Sprintf("Replay: %s (unpaced)", s.path)
	}
	return fmt.Sprintf("Replay: %s (%.1fx)", s.path, s.speed)
}

// OpenByteSource opens either a serial or replay source based on flags
func OpenByteSource() (ByteSource, string, error) {
	if replayPath != "" {
		// Replay mode
		info, err := os.Stat(replayPath)
		if err != nil {
			return nil, "", fmt.Errorf("replay path: %v", err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("replay path %s is a directory (watch offers a picker, other commands need a file)", replayPath)
		}

		src, err := OpenReplaySource(replayPath, replaySpeed)
		if err != nil {
			return nil, "", err
		}
		return src, src.Info(), nil
	}

	if portName != "" {
		// Serial mode
		src, err := OpenSerialSource(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return src, src.Info(), nil
	}

	return nil, "", fmt.Errorf("either --port or --replay must be specified")
}

// sourceDone reports whether a read error means the source is exhausted
// rather than faulted.
func sourceDone(err error) bool {
	return errors.Is(err, io.EOF)
}
