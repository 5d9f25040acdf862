// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

import "strings"

// Recorder is a Pin that logs every level written to it instead of driving
// hardware. It backs dry runs, wire rendering, and tests. Emission is
// single-threaded (see Transmitter), so the log is not synchronized.
type Recorder struct {
	levels []bool
}

// NewRecorder creates an empty recording pin.
func NewRecorder() *Recorder {
	return &Recorder{levels: make([]bool, 0, FramePhases)}
}

// Set appends the level to the log.
func (r *Recorder) Set(high bool) {
	r.levels = append(r.levels, high)
}

// Levels returns the recorded quarter-phase levels in write order.
func (r *Recorder) Levels() []bool {
	return r.levels
}

// Clear discards the recorded levels.
func (r *Recorder) Clear() {
	r.levels = r.levels[:0]
}

// LevelString renders the log as a string of 1s and 0s, one character per
// quarter phase.
func (r *Recorder) LevelString() string {
	var s strings.Builder
	s.Grow(len(r.levels))
	for _, high := range r.levels {
		if high {
			s.WriteByte('1')
		} else {
			s.WriteByte('0')
		}
	}
	return s.String()
}
