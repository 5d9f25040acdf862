// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

import "time"

// Pin is the digital output a transmitter keys. Set drives the line to the
// given logic level. There is no error return: backend initialization
// failure is fatal before any emission starts, and after that writes are
// assumed to succeed.
type Pin interface {
	Set(high bool)
}

// Emitter translates logical bits into timed level transitions on a Pin.
// Each quarter phase holds the line for the current delay. The delay is the
// single tunable shared between calibration and emission; the Transmitter
// that owns the emitter writes it through SetDelay.
type Emitter struct {
	pin   Pin
	delay uint32 // microseconds per quarter phase
	sleep func(usec uint32)
}

// NewEmitter creates an emitter driving pin with the given quarter-phase
// delay in microseconds. Pass AutoDelay when the delay will be calibrated
// before use.
func NewEmitter(pin Pin, delayMicros uint32) *Emitter {
	return &Emitter{
		pin:   pin,
		delay: delayMicros,
		sleep: sleepMicros,
	}
}

// Delay returns the current quarter-phase delay in microseconds.
func (e *Emitter) Delay() uint32 { return e.delay }

// SetDelay changes the quarter-phase delay in microseconds.
func (e *Emitter) SetDelay(usec uint32) { e.delay = usec }

// EmitQuarterPhase drives the pin to the given level and holds it for one
// quarter-phase delay.
func (e *Emitter) EmitQuarterPhase(high bool) {
	e.pin.Set(high)
	e.sleep(e.delay)
}

// EmitBit emits one bit as four quarter phases: 1 is high-high-high-low,
// 0 is high-low-low-low. The encoding is fixed; a receiver distinguishes
// the bits by duty cycle alone.
func (e *Emitter) EmitBit(bit uint8) {
	if bit == 1 {
		e.EmitQuarterPhase(true)
		e.EmitQuarterPhase(true)
		e.EmitQuarterPhase(true)
		e.EmitQuarterPhase(false)
	} else {
		e.EmitQuarterPhase(true)
		e.EmitQuarterPhase(false)
		e.EmitQuarterPhase(false)
		e.EmitQuarterPhase(false)
	}
}

// EmitBits emits the low bits of value most-significant first. The caller
// guarantees bits does not exceed the field width being encoded.
func (e *Emitter) EmitBits(value uint32, bits uint) {
	for bit := int(bits) - 1; bit >= 0; bit-- {
		e.EmitBit(uint8(value >> uint(bit) & 1))
	}
}

// sleepMicros blocks for the given number of microseconds. time.Sleep alone
// routinely overshoots below a millisecond, so short delays sleep in small
// slices and poll the elapsed time instead.
func sleepMicros(usec uint32) {
	if usec == 0 {
		return
	}
	d := time.Duration(usec) * time.Microsecond
	if d > 500*time.Microsecond {
		time.Sleep(d)
		return
	}
	slice := d / 100
	start := time.Now()
	for {
		time.Sleep(slice)
		if time.Since(start) >= d {
			return
		}
	}
}
