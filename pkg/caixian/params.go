// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

import "fmt"

// Params is one collar command, immutable once built. The transmitter ID and
// channel are the pairing identity the physical receiver was configured
// with; construction validates ranges only, it cannot verify that a paired
// device exists.
type Params struct {
	transmitterID uint16
	channel       Channel
	mode          Mode
	strength      uint8
	repeat        uint
}

// NewParams builds a validated command.
//
// Strength is only meaningful for Shock and Vibrate; for Beep it is silently
// forced to 0, so NewParams(id, ch, ModeBeep, 50, n) and
// NewParams(id, ch, ModeBeep, 0, n) produce identical frames.
// Errors: channel outside 1..3, mode outside Shock/Vibrate/Beep, strength
// above MaxStrength, repeat of 0.
func NewParams(id uint16, ch Channel, mode Mode, strength uint8, repeat uint) (Params, error) {
	if ch < Channel1 || ch > Channel3 {
		return Params{}, fmt.Errorf("channel out of range: %d (want 1..3)", int(ch)+1)
	}
	if mode < ModeShock || mode > ModeBeep {
		return Params{}, fmt.Errorf("invalid mode: %d", mode)
	}
	if strength > MaxStrength {
		return Params{}, fmt.Errorf("strength out of range: %d (max %d)", strength, MaxStrength)
	}
	if repeat == 0 {
		return Params{}, fmt.Errorf("repeat count must be at least 1")
	}
	if mode == ModeBeep {
		strength = 0
	}
	return Params{
		transmitterID: id,
		channel:       ch,
		mode:          mode,
		strength:      strength,
		repeat:        repeat,
	}, nil
}

// NewBeep creates a beep command. Beep carries no intensity.
func NewBeep(id uint16, ch Channel, repeat uint) (Params, error) {
	return NewParams(id, ch, ModeBeep, 0, repeat)
}

// NewVibrate creates a vibrate command with the given intensity (0..99).
func NewVibrate(id uint16, ch Channel, strength uint8, repeat uint) (Params, error) {
	return NewParams(id, ch, ModeVibrate, strength, repeat)
}

// NewShock creates a shock command with the given intensity (0..99).
func NewShock(id uint16, ch Channel, strength uint8, repeat uint) (Params, error) {
	return NewParams(id, ch, ModeShock, strength, repeat)
}

// DefaultParams returns the stock remote's command: a single beep on
// channel 1 addressed to DefaultTransmitterID.
func DefaultParams() Params {
	p, _ := NewBeep(DefaultTransmitterID, Channel1, 1)
	return p
}

// TransmitterID returns the pairing identity.
func (p Params) TransmitterID() uint16 { return p.transmitterID }

// ChannelNumber returns the zero-based channel slot.
func (p Params) ChannelNumber() Channel { return p.channel }

// CommandMode returns the collar action.
func (p Params) CommandMode() Mode { return p.mode }

// Strength returns the intensity (always 0 for Beep).
func (p Params) Strength() uint8 { return p.strength }

// Repeat returns the full-frame retransmission count.
func (p Params) Repeat() uint { return p.repeat }
