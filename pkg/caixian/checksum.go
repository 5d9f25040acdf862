// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kennelworks

package caixian

// Checksum computes the 8-bit frame checksum: the wrapping sum of both
// transmitter ID bytes, the packed channel/mode nibbles, and the strength.
// The prefix and postfix are not covered.
func Checksum(id uint16, ch Channel, mode Mode, strength uint8) uint8 {
	return uint8(id>>8) + uint8(id&0xFF) + (uint8(ch)<<4 | uint8(mode)) + strength
}
