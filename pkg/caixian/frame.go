// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

import "strings"

// Frame is one encoded command transmission: the parameters plus their
// checksum, computed once even when the frame is retransmitted. It exists
// only for the duration of a send or a rendering; nothing persists it.
type Frame struct {
	params   Params
	checksum uint8
}

// NewFrame encodes params into a frame, computing the checksum.
func NewFrame(p Params) *Frame {
	return &Frame{
		params:   p,
		checksum: Checksum(p.transmitterID, p.channel, p.mode, p.strength),
	}
}

// nullFrame is the calibration test frame: all-zero fields, including the
// deliberately invalid mode 0. Only its timing matters, never its meaning.
func nullFrame() *Frame {
	return NewFrame(Params{})
}

// FrameChecksum returns the frame's 8-bit checksum.
func (f *Frame) FrameChecksum() uint8 { return f.checksum }

// CommandParams returns the parameters the frame encodes.
func (f *Frame) CommandParams() Params { return f.params }

// EmitTo plays the frame through the emitter, field by field: the raw
// preamble levels, then ID, channel, mode, strength and checksum MSB-first,
// then the two-bit terminator via the ordinary bit-0 encoding. One call is
// one full frame; repetition and cancellation live in Transmitter.Send.
func (f *Frame) EmitTo(e *Emitter) {
	for _, high := range preamblePhases {
		e.EmitQuarterPhase(high)
	}
	e.EmitBits(uint32(f.params.transmitterID), TransmitterIDBits)
	e.EmitBits(uint32(f.params.channel), ChannelBits)
	e.EmitBits(uint32(f.params.mode), ModeBits)
	e.EmitBits(uint32(f.params.strength), StrengthBits)
	e.EmitBits(uint32(f.checksum), ChecksumBits)
	e.EmitBit(0)
	e.EmitBit(0)
}

// Levels renders the frame's quarter-phase levels without hardware or
// delays. The result is always FramePhases long.
func (f *Frame) Levels() []bool {
	rec := NewRecorder()
	e := NewEmitter(rec, 0)
	f.EmitTo(e)
	return rec.Levels()
}

// WireHex renders the frame as one hex nibble per bit period, the notation
// receivers and protocol documentation use: a 1 bit is e (1110), a 0 bit
// is 8 (1000), the preamble is fc and the terminator 88. The default beep
// command renders as
// fce8ee8e88e88e8eee888888ee888888888e88eee888.
func (f *Frame) WireHex() string {
	levels := f.Levels()
	var s strings.Builder
	s.Grow(len(levels) / PhasesPerBit)
	for i := 0; i+PhasesPerBit <= len(levels); i += PhasesPerBit {
		var nibble byte
		for j := 0; j < PhasesPerBit; j++ {
			nibble <<= 1
			if levels[i+j] {
				nibble |= 1
			}
		}
		s.WriteByte(hexDigit(nibble))
	}
	return s.String()
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'a' + n - 10
}
