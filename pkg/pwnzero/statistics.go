// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks frame statistics and error rates. The zero value is
// not ready to use; create trackers with NewStatistics. Statistics is
// not safe for concurrent use, callers own the locking.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames       uint64
	ValidFrames       uint64
	StrayBytes        uint64
	InterruptedFrames uint64
	AnomalousFrames   uint64
	FaceRangeErrors   uint64
	UnknownModes      uint64
	MissingArgs       uint64
	BinaryText        uint64
	TruncatedArgs     uint64
	AppliedUpdates    uint64
	NoopFrames        uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records one decoder outcome: either a completed frame with its
// validation results, or a decode error for a byte that produced no frame.
func (s *Statistics) Update(packet *Packet, decodeErr error, validationErrors []ValidationError) {
	if decodeErr != nil {
		switch {
		case errors.Is(decodeErr, ErrStrayByte):
			s.StrayBytes++
		case errors.Is(decodeErr, ErrFrameInterrupted):
			s.InterruptedFrames++
		}
		return
	}
	if packet == nil {
		return
	}

	s.TotalFrames++

	if len(validationErrors) > 0 {
		s.AnomalousFrames++
		for _, err := range validationErrors {
			switch err.Type {
			case AnomalyFaceRange:
				s.FaceRangeErrors++
			case AnomalyUnknownMode:
				s.UnknownModes++
			case AnomalyMissingArg:
				s.MissingArgs++
			case AnomalyBinaryText:
				s.BinaryText++
			case AnomalyTruncated:
				s.TruncatedArgs++
			}
		}
	} else {
		s.ValidFrames++
	}

	s.LastUpdateTime = time.Now()
}

// RecordApply records whether an applied frame changed the status.
func (s *Statistics) RecordApply(changed bool) {
	if changed {
		s.AppliedUpdates++
	} else {
		s.NoopFrames++
	}
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		errorCount := s.StrayBytes + s.InterruptedFrames + s.AnomalousFrames
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent, anomalousPercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
		anomalousPercent = float64(s.AnomalousFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)

	if s.StrayBytes > 0 {
		result += fmt.Sprintf("Stray Bytes:     %8d\n", s.StrayBytes)
	}
	if s.InterruptedFrames > 0 {
		result += fmt.Sprintf("Interrupted:     %8d\n", s.InterruptedFrames)
	}
	if s.AnomalousFrames > 0 {
		result += fmt.Sprintf("Anomalous Frames:%8d (%.1f%%)\n", s.AnomalousFrames, anomalousPercent)
		if s.FaceRangeErrors > 0 {
			result += fmt.Sprintf("  Face Range:       %5d\n", s.FaceRangeErrors)
		}
		if s.UnknownModes > 0 {
			result += fmt.Sprintf("  Unknown Modes:    %5d\n", s.UnknownModes)
		}
		if s.MissingArgs > 0 {
			result += fmt.Sprintf("  Missing Args:     %5d\n", s.MissingArgs)
		}
		if s.BinaryText > 0 {
			result += fmt.Sprintf("  Binary Text:      %5d\n", s.BinaryText)
		}
		if s.TruncatedArgs > 0 {
			result += fmt.Sprintf("  Truncated Args:   %5d\n", s.TruncatedArgs)
		}
	}

	result += fmt.Sprintf("Applied Updates: %8d\n", s.AppliedUpdates)
	if s.NoopFrames > 0 {
		result += fmt.Sprintf("No-op Frames:    %8d\n", s.NoopFrames)
	}
	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalFrames = 0
	s.ValidFrames = 0
	s.StrayBytes = 0
	s.InterruptedFrames = 0
	s.AnomalousFrames = 0
	s.FaceRangeErrors = 0
	s.UnknownModes = 0
	s.MissingArgs = 0
	s.BinaryText = 0
	s.TruncatedArgs = 0
	s.AppliedUpdates = 0
	s.NoopFrames = 0
	s.FrameRate = 0
	s.ErrorRate = 0
}
