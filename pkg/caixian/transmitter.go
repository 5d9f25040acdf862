// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ErrZeroMeasurement reports a calibration iteration that measured no
// elapsed time, which would corrupt the delay (or divide by zero). It means
// the clock or the pin is not real; calibration must not continue.
var ErrZeroMeasurement = fmt.Errorf("calibration measured zero frame duration")

// Transmitter owns an emitter and drives whole command transmissions:
// repeated frames with cooperative cancellation, and the delay
// self-calibration loop. It is not safe for concurrent use; one
// transmission runs at a time.
type Transmitter struct {
	emitter *Emitter

	// Progress receives one line per calibration iteration with the
	// updated delay. Defaults to io.Discard; the CLI points it at stdout.
	Progress io.Writer

	// Clock supplies monotonic timestamps for calibration measurements.
	// Overridden in tests.
	Clock func() time.Time
}

// NewTransmitter creates a transmitter around the given emitter.
func NewTransmitter(e *Emitter) *Transmitter {
	return &Transmitter{
		emitter:  e,
		Progress: io.Discard,
		Clock:    time.Now,
	}
}

// Emitter returns the owned emitter, whose delay reflects any calibration.
func (t *Transmitter) Emitter() *Emitter { return t.emitter }

// Send transmits the command p.Repeat() times and returns the number of
// frames actually emitted. The context is checked between repeats only: a
// cancellation never truncates a frame mid-air, it stops the loop before
// the next one. Cancellation is a clean stop, not an error, so callers
// detect it by comparing the return value with p.Repeat().
func (t *Transmitter) Send(ctx context.Context, p Params) uint {
	f := NewFrame(p)
	var sent uint
	for tx := uint(0); tx < p.repeat; tx++ {
		select {
		case <-ctx.Done():
			return sent
		default:
		}
		f.EmitTo(t.emitter)
		sent++
	}
	return sent
}

// Calibrate converges the emitter delay toward the target quarter-phase
// rate by measuring real transmissions. It runs exactly CalibrationRounds
// iterations; each transmits one null test frame, measures the elapsed
// wall-clock time, rescales the delay by ideal/measured microseconds per
// quarter phase, and writes the updated delay to Progress. There is no
// convergence check and no clamping: after the fixed rounds, whatever
// delay resulted is the answer.
//
// A zero measurement aborts with ErrZeroMeasurement. A cancelled context
// aborts between iterations with the context error; the emitter delay is
// left mid-calibration and must not be trusted.
func (t *Transmitter) Calibrate(ctx context.Context) (uint32, error) {
	delay := uint32(1_000_000 / TargetQuarterRate)
	t.emitter.SetDelay(delay)

	f := nullFrame()
	for z := 0; z < CalibrationRounds; z++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		start := t.Clock()
		f.EmitTo(t.emitter)
		elapsed := t.Clock().Sub(start).Nanoseconds()

		measured := uint32(elapsed / (FrameBits * PhasesPerBit) / 1000)
		if measured == 0 {
			return 0, fmt.Errorf("iteration %d: %w", z, ErrZeroMeasurement)
		}
		delay = 1_000_000 / TargetQuarterRate * delay / measured
		t.emitter.SetDelay(delay)
		fmt.Fprintf(t.Progress, "%d\n", delay)
	}
	return delay, nil
}
