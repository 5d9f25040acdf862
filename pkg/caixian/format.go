// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

import (
	"fmt"
	"strings"
)

// FormatParams formats command parameters into a human-readable string.
func FormatParams(p Params) string {
	return fmt.Sprintf("id=%d ch=%s mode=%s strength=%d repeat=%d",
		p.transmitterID, FormatChannel(p.channel), FormatMode(p.mode), p.strength, p.repeat)
}

// FormatChannel returns the user-facing channel number (1..3).
func FormatChannel(ch Channel) string {
	return fmt.Sprintf("%d", int(ch)+1)
}

// FormatMode returns the human-readable name for a command mode.
func FormatMode(mode Mode) string {
	switch mode {
	case ModeShock:
		return "SHOCK"
	case ModeVibrate:
		return "VIBRATE"
	case ModeBeep:
		return "BEEP"
	default:
		return "UNKNOWN"
	}
}

// ParseMode converts a mode name (case-insensitive) back to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SHOCK":
		return ModeShock, nil
	case "VIBRATE":
		return ModeVibrate, nil
	case "BEEP":
		return ModeBeep, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", name)
	}
}

// FormatWire renders a frame's wire hex with the fields separated:
// prefix, transmitter ID, channel, mode, strength, checksum, postfix.
func FormatWire(f Frame) string {
	hex := f.WireHex()

	// Nibble widths per field. Each payload bit is one nibble; the prefix
	// and postfix are two nibbles each.
	widths := []int{2, TransmitterIDBits, ChannelBits, ModeBits, StrengthBits, ChecksumBits, 2}

	var b strings.Builder
	pos := 0
	for i, w := range widths {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(hex[pos : pos+w])
		pos += w
	}
	return b.String()
}
