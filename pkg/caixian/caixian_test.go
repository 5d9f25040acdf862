// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

import (
	"strings"
	"testing"
	"time"
)

// ============================================================
// Checksum Tests
// ============================================================

func TestChecksum_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		id       uint16
		ch       Channel
		mode     Mode
		strength uint8
		expected uint8
	}{
		{
			name:     "stock remote beep",
			id:       46231,
			ch:       Channel1,
			mode:     ModeBeep,
			strength: 0,
			expected: 78,
		},
		{
			name:     "null calibration frame",
			id:       0,
			ch:       Channel(0),
			mode:     Mode(0),
			strength: 0,
			expected: 0,
		},
		{
			name:     "wraps modulo 256",
			id:       0xFFFF,
			ch:       Channel3,
			mode:     ModeShock,
			strength: 99,
			expected: 130,
		},
		{
			name:     "id low byte only",
			id:       0x00FF,
			ch:       Channel1,
			mode:     ModeBeep,
			strength: 0,
			expected: 2,
		},
		{
			name:     "id high byte only",
			id:       0x0100,
			ch:       Channel1,
			mode:     ModeShock,
			strength: 0,
			expected: 2,
		},
		{
			name:     "packed channel and mode nibbles",
			id:       46231,
			ch:       Channel2,
			mode:     ModeVibrate,
			strength: 50,
			expected: 143,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := Checksum(tt.id, tt.ch, tt.mode, tt.strength)
			if sum != tt.expected {
				t.Errorf("Checksum(%d, %d, %d, %d) = %d, want %d",
					tt.id, tt.ch, tt.mode, tt.strength, sum, tt.expected)
			}
		})
	}
}

func TestChecksum_StrengthLinear(t *testing.T) {
	base := Checksum(46231, Channel1, ModeShock, 10)
	next := Checksum(46231, Channel1, ModeShock, 11)
	if next != base+1 {
		t.Errorf("strength +1 should raise checksum by 1: got %d then %d", base, next)
	}
}

// ============================================================
// Params Tests
// ============================================================

func TestNewParams(t *testing.T) {
	p, err := NewParams(0x1234, Channel2, ModeVibrate, 75, 3)
	if err != nil {
		t.Fatalf("NewParams failed: %v", err)
	}

	if p.TransmitterID() != 0x1234 {
		t.Errorf("TransmitterID() = %d, want %d", p.TransmitterID(), 0x1234)
	}
	if p.ChannelNumber() != Channel2 {
		t.Errorf("ChannelNumber() = %d, want %d", p.ChannelNumber(), Channel2)
	}
	if p.CommandMode() != ModeVibrate {
		t.Errorf("CommandMode() = %d, want %d", p.CommandMode(), ModeVibrate)
	}
	if p.Strength() != 75 {
		t.Errorf("Strength() = %d, want 75", p.Strength())
	}
	if p.Repeat() != 3 {
		t.Errorf("Repeat() = %d, want 3", p.Repeat())
	}
}

func TestNewParams_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		id       uint16
		ch       Channel
		mode     Mode
		strength uint8
		repeat   uint
	}{
		{"channel below range", 46231, Channel(-1), ModeBeep, 0, 1},
		{"channel above range", 46231, Channel(3), ModeBeep, 0, 1},
		{"mode zero", 46231, Channel1, Mode(0), 0, 1},
		{"mode above range", 46231, Channel1, Mode(4), 0, 1},
		{"strength above maximum", 46231, Channel1, ModeShock, MaxStrength + 1, 1},
		{"repeat zero", 46231, Channel1, ModeBeep, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParams(tt.id, tt.ch, tt.mode, tt.strength, tt.repeat)
			if err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestNewParams_MaxStrength(t *testing.T) {
	p, err := NewParams(46231, Channel1, ModeShock, MaxStrength, 1)
	if err != nil {
		t.Fatalf("NewParams failed at maximum strength: %v", err)
	}
	if p.Strength() != MaxStrength {
		t.Errorf("Strength() = %d, want %d", p.Strength(), MaxStrength)
	}
}

func TestNewParams_BeepForcesZeroStrength(t *testing.T) {
	loud, err := NewParams(46231, Channel1, ModeBeep, 50, 1)
	if err != nil {
		t.Fatalf("NewParams failed: %v", err)
	}
	if loud.Strength() != 0 {
		t.Errorf("beep Strength() = %d, want 0", loud.Strength())
	}

	// A beep at any requested strength must produce the same frame.
	quiet, err := NewParams(46231, Channel1, ModeBeep, 0, 1)
	if err != nil {
		t.Fatalf("NewParams failed: %v", err)
	}
	if NewFrame(loud).WireHex() != NewFrame(quiet).WireHex() {
		t.Error("beep frames should be identical regardless of requested strength")
	}
}

func TestCommandBuilders(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (Params, error)
		wantMode Mode
	}{
		{"beep", func() (Params, error) { return NewBeep(46231, Channel1, 1) }, ModeBeep},
		{"vibrate", func() (Params, error) { return NewVibrate(46231, Channel2, 40, 2) }, ModeVibrate},
		{"shock", func() (Params, error) { return NewShock(46231, Channel3, 5, 1) }, ModeShock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			if err != nil {
				t.Fatalf("builder failed: %v", err)
			}
			if p.CommandMode() != tt.wantMode {
				t.Errorf("CommandMode() = %d, want %d", p.CommandMode(), tt.wantMode)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	if p.TransmitterID() != DefaultTransmitterID {
		t.Errorf("TransmitterID() = %d, want %d", p.TransmitterID(), DefaultTransmitterID)
	}
	if p.ChannelNumber() != Channel1 {
		t.Errorf("ChannelNumber() = %d, want %d", p.ChannelNumber(), Channel1)
	}
	if p.CommandMode() != ModeBeep {
		t.Errorf("CommandMode() = %d, want %d", p.CommandMode(), ModeBeep)
	}
	if p.Strength() != 0 {
		t.Errorf("Strength() = %d, want 0", p.Strength())
	}
	if p.Repeat() != 1 {
		t.Errorf("Repeat() = %d, want 1", p.Repeat())
	}
}

// ============================================================
// Format Tests
// ============================================================

func TestFormatMode(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeShock, "SHOCK"},
		{ModeVibrate, "VIBRATE"},
		{ModeBeep, "BEEP"},
		{Mode(0), "UNKNOWN"},
		{Mode(9), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatMode(tt.mode)
			if result != tt.expected {
				t.Errorf("FormatMode(%d) = %s, want %s", tt.mode, result, tt.expected)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{"lowercase shock", "shock", ModeShock, false},
		{"mixed case vibrate", "Vibrate", ModeVibrate, false},
		{"uppercase beep", "BEEP", ModeBeep, false},
		{"surrounding whitespace", " beep ", ModeBeep, false},
		{"unknown name", "buzz", 0, true},
		{"empty string", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMode(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) failed: %v", tt.input, err)
			}
			if mode != tt.want {
				t.Errorf("ParseMode(%q) = %d, want %d", tt.input, mode, tt.want)
			}
		})
	}
}

func TestFormatChannel(t *testing.T) {
	tests := []struct {
		ch       Channel
		expected string
	}{
		{Channel1, "1"},
		{Channel2, "2"},
		{Channel3, "3"},
	}

	for _, tt := range tests {
		result := FormatChannel(tt.ch)
		if result != tt.expected {
			t.Errorf("FormatChannel(%d) = %s, want %s", tt.ch, result, tt.expected)
		}
	}
}

func TestFormatParams(t *testing.T) {
	result := FormatParams(DefaultParams())
	expected := "id=46231 ch=1 mode=BEEP strength=0 repeat=1"
	if result != expected {
		t.Errorf("FormatParams() = %q, want %q", result, expected)
	}
}

func TestFormatWire_DefaultBeep(t *testing.T) {
	result := FormatWire(*NewFrame(DefaultParams()))
	expected := "fc e8ee8e88e88e8eee 8888 88ee 88888888 8e88eee8 88"
	if result != expected {
		t.Errorf("FormatWire() = %q, want %q", result, expected)
	}
}

func TestFormatWire_FieldWidths(t *testing.T) {
	result := FormatWire(*NewFrame(DefaultParams()))
	groups := strings.Split(result, " ")

	wantWidths := []int{2, TransmitterIDBits, ChannelBits, ModeBits, StrengthBits, ChecksumBits, 2}
	if len(groups) != len(wantWidths) {
		t.Fatalf("got %d field groups, want %d", len(groups), len(wantWidths))
	}
	for i, w := range wantWidths {
		if len(groups[i]) != w {
			t.Errorf("group %d is %d nibbles, want %d", i, len(groups[i]), w)
		}
	}
}

// ============================================================
// Statistics Tests
// ============================================================

func TestStatistics_NewStatistics(t *testing.T) {
	s := NewStatistics()
	if s.TotalCommands != 0 {
		t.Error("New statistics should have 0 total commands")
	}
	if s.TotalFrames != 0 {
		t.Error("New statistics should have 0 total frames")
	}
	if s.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}
}

func TestStatistics_RecordSend(t *testing.T) {
	s := NewStatistics()

	s.RecordSend(3, 3, 150*time.Millisecond)

	if s.TotalCommands != 1 {
		t.Errorf("TotalCommands should be 1, got %d", s.TotalCommands)
	}
	if s.TotalFrames != 3 {
		t.Errorf("TotalFrames should be 3, got %d", s.TotalFrames)
	}
	if s.CancelledSends != 0 {
		t.Errorf("CancelledSends should be 0, got %d", s.CancelledSends)
	}
	if s.LastDuration != 150*time.Millisecond {
		t.Errorf("LastDuration should be 150ms, got %v", s.LastDuration)
	}
}

func TestStatistics_RecordSend_Cancelled(t *testing.T) {
	s := NewStatistics()

	s.RecordSend(1, 5, 44*time.Millisecond)

	if s.TotalFrames != 1 {
		t.Errorf("TotalFrames should count emitted frames only, got %d", s.TotalFrames)
	}
	if s.CancelledSends != 1 {
		t.Errorf("CancelledSends should be 1, got %d", s.CancelledSends)
	}
}

func TestStatistics_RecordCalibration(t *testing.T) {
	s := NewStatistics()

	s.RecordCalibration(245)

	if s.CalibrationRuns != 1 {
		t.Errorf("CalibrationRuns should be 1, got %d", s.CalibrationRuns)
	}
	if s.LastDelay != 245 {
		t.Errorf("LastDelay should be 245, got %d", s.LastDelay)
	}
}

func TestStatistics_CalculateRates(t *testing.T) {
	s := NewStatistics()
	s.TotalFrames = 176
	s.StartTime = time.Now().Add(-time.Second)

	s.CalculateRates()

	if s.FrameRate <= 0 {
		t.Error("FrameRate should be positive")
	}
}

func TestStatistics_String(t *testing.T) {
	s := NewStatistics()
	s.RecordSend(3, 3, 150*time.Millisecond)
	s.RecordCalibration(245)

	result := s.String()

	if !strings.Contains(result, "Statistics") {
		t.Error("String should contain 'Statistics'")
	}
	if !strings.Contains(result, "Total Commands") {
		t.Error("String should contain 'Total Commands'")
	}
	if !strings.Contains(result, "245") {
		t.Error("String should contain the last calibrated delay")
	}
}

func TestStatistics_Reset(t *testing.T) {
	s := NewStatistics()
	s.TotalCommands = 100
	s.TotalFrames = 300
	s.CancelledSends = 5
	s.LastDelay = 245

	s.Reset()

	if s.TotalCommands != 0 {
		t.Error("TotalCommands should be 0 after reset")
	}
	if s.TotalFrames != 0 {
		t.Error("TotalFrames should be 0 after reset")
	}
	if s.CancelledSends != 0 {
		t.Error("CancelledSends should be 0 after reset")
	}
	if s.LastDelay != 0 {
		t.Error("LastDelay should be 0 after reset")
	}
}
