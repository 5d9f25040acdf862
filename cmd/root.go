// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kennelworks

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Output backend flags
	gpioName string
	portName string
	baudRate int
)

var rootCmd = &cobra.Command{
	Use:   "barker",
	Short: "CaiXianLin collar remote transmitter",
	Long: `Barker - A CLI transmitter for CaiXianLin shock/vibrate/beep collar remotes.

Bit-bangs the CaiXianLin one-way radio protocol on a digital output: each
command frame carries a 16-bit transmitter ID, channel, mode, intensity and
checksum at a nominal 4 kHz quarter-phase rate.

Output backends:
  GPIO:   --gpio GPIO17 (default; BARKER_PIN environment variable overrides)
  Serial: --port /dev/ttyUSB0 [--baud 115200] keys the RTS control line

The transmitter ID and channel must match what the collar was paired with.
Transmission only has effect on hardware with a radio stage attached to the
output line; use "send --dry-run" to inspect the waveform anywhere.`,
	Version: "1.0.0",
}

func init() {
	// Output backend flags
	rootCmd.PersistentFlags().StringVar(&gpioName, "gpio", "", "GPIO line name (default GPIO17, or BARKER_PIN)")
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device (keys RTS instead of GPIO)")
	rootCmd.PersistentFlags().IntVar(&baudRate, "baud", 115200, "Baud rate (serial only)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
