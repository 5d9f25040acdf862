// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

import (
	"fmt"
	"time"
)

// Statistics tracks transmission counters and rates
type Statistics struct {
	StartTime    time.Time
	LastSendTime time.Time

	// Counters
	TotalCommands   uint64
	TotalFrames     uint64
	CancelledSends  uint64
	CalibrationRuns uint64

	// Most recent values
	LastDelay    uint32
	LastDuration time.Duration

	// Rates (calculated)
	FrameRate float64 // frames/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:    now,
		LastSendTime: now,
	}
}

// RecordSend updates statistics after a transmission. A send that emitted
// fewer frames than requested was cancelled mid-command.
func (s *Statistics) RecordSend(sent, requested uint, elapsed time.Duration) {
	s.TotalCommands++
	s.TotalFrames += uint64(sent)
	if sent < requested {
		s.CancelledSends++
	}
	s.LastDuration = elapsed
	s.LastSendTime = time.Now()
}

// RecordCalibration updates statistics after a calibration run.
func (s *Statistics) RecordCalibration(delay uint32) {
	s.CalibrationRuns++
	s.LastDelay = delay
}

// CalculateRates calculates the frame rate since start
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Commands:  %8d\n", s.TotalCommands)
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)

	if s.CancelledSends > 0 {
		result += fmt.Sprintf("Cancelled Sends: %8d\n", s.CancelledSends)
	}
	if s.CalibrationRuns > 0 {
		result += fmt.Sprintf("Calibrations:    %8d\n", s.CalibrationRuns)
		result += fmt.Sprintf("Last Delay:      %8d us\n", s.LastDelay)
	}
	if s.LastDuration > 0 {
		result += fmt.Sprintf("Last Send Time:  %8s\n", s.LastDuration.Round(time.Millisecond))
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	s.StartTime = now
	s.LastSendTime = now
	s.TotalCommands = 0
	s.TotalFrames = 0
	s.CancelledSends = 0
	s.CalibrationRuns = 0
	s.LastDelay = 0
	s.LastDuration = 0
	s.FrameRate = 0
}
