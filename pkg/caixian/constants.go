// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

// Package caixian encodes the CaiXianLin collar remote-control protocol.
//
// CaiXianLin is a one-way OOK radio protocol used by remote-controlled
// shock/vibrate/beep training collars. A command frame is bit-banged on a
// single digital output at a nominal 4 kHz quarter-phase rate: every bit
// period is four fixed-duration levels (quarter phases), a 1 encoded as
// 1110 and a 0 as 1000. This package provides frame encoding, waveform
// emission against an abstract pin, delay self-calibration, and offline
// wire rendering.
//
// Protocol reference: https://openshock.org/hardware/shockers/caixianlin/
package caixian

// Timing defaults (microseconds unless noted)
const (
	// TargetQuarterRate is the nominal quarter-phase rate in Hz. One
	// quarter phase should last 1_000_000/TargetQuarterRate µs (250 µs).
	TargetQuarterRate = 4000

	// DefaultDelay is the stock per-quarter-phase delay. Empirically about
	// 0.7 of the 250 µs ideal: the write itself eats the rest of the budget
	// on a scheduled OS.
	DefaultDelay = 179

	// AutoDelay requests self-calibration instead of a fixed delay.
	AutoDelay = 0

	// CalibrationRounds is the fixed number of measure/adjust iterations.
	CalibrationRounds = 10
)

// Frame field widths in bits
const (
	TransmitterIDBits = 16
	ChannelBits       = 4
	ModeBits          = 4
	StrengthBits      = 8
	ChecksumBits      = 8
)

// Frame geometry
const (
	// PhasesPerBit is the number of quarter phases per bit period.
	PhasesPerBit = 4

	// FrameBits is the frame length in bit periods. The field table counts
	// the 0xFC prefix and 0x88 postfix as 2 bit periods each:
	// 2 + 16 + 4 + 4 + 8 + 8 + 2.
	FrameBits = 44

	// FramePhases is the physical frame length in quarter phases.
	FramePhases = FrameBits * PhasesPerBit
)

// preamblePhases is the raw 0xFC prefix: eight literal quarter-phase levels,
// not built from the per-bit encoding.
var preamblePhases = [8]bool{true, true, true, true, true, true, false, false}

// Parameter limits
const (
	MaxStrength = 99
)

// DefaultTransmitterID is the pairing identity the stock remote ships with.
const DefaultTransmitterID = 46231

// Channel selects one of the three pairing slots a collar can be bound to.
// User-facing numbering is 1..3; the wire value is zero-based.
type Channel int

// Channel values
const (
	Channel1 Channel = 0
	Channel2 Channel = 1
	Channel3 Channel = 2
)

// Mode selects the collar action. Zero is not a valid command mode; the
// calibration procedure transmits it deliberately in its null test frame.
type Mode int

// Mode values
const (
	ModeShock   Mode = 1
	ModeVibrate Mode = 2
	ModeBeep    Mode = 3
)
