// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kennelworks

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kennelworks/barker/pkg/caixian"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	sendDelay   uint32
	sendID      uint16
	sendChannel int
	sendBeep    bool
	sendVibrate uint8
	sendShock   uint8
	sendRepeat  uint
	sendDryRun  bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Transmit a collar command",
	Long: `Transmit one command to a paired collar, optionally repeated.

The mode flags are mutually exclusive; with none given the command beeps.
Beep carries no intensity, so -b takes no value and any configured strength
is transmitted as 0. A delay of 0 runs the self-calibration procedure before
transmitting: ten measured test frames that converge the quarter-phase delay
toward the 4 kHz protocol rate on this machine.

Interrupting with Ctrl+C stops between frame repeats, never mid-frame, and
still exits cleanly with the line returned to idle.

Exit codes:
  0 - Transmission complete, or stopped by user interrupt
  1 - Output line failed to initialize, or invalid arguments

Examples:
  barker send -b                     Beep on channel 1 with the stock ID
  barker send -i 4660 -c 2 -v 40     Vibrate at 40 on channel 2, ID 4660
  barker send -s 25 -r 5 -d 0        Shock at 25, 5 repeats, auto-calibrate
  barker send -v 40 --dry-run        Render the waveform without hardware`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().Uint32VarP(&sendDelay, "delay", "d", caixian.DefaultDelay, "Quarter-phase delay in microseconds (0 = auto-calibrate)")
	sendCmd.Flags().Uint16VarP(&sendID, "id", "i", caixian.DefaultTransmitterID, "Transmitter ID the collar was paired with")
	sendCmd.Flags().IntVarP(&sendChannel, "channel", "c", 1, "Channel (1..3)")
	sendCmd.Flags().BoolVarP(&sendBeep, "beep", "b", false, "Beep mode (default)")
	sendCmd.Flags().Uint8VarP(&sendVibrate, "vibrate", "v", 0, "Vibrate mode with the given strength (0..99)")
	sendCmd.Flags().Uint8VarP(&sendShock, "shock", "s", 0, "Shock mode with the given strength (0..99)")
	sendCmd.Flags().UintVarP(&sendRepeat, "repeat", "r", 1, "Number of frame repeats")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "Render the frame without opening hardware")
}

// resolveMode maps the three mutually exclusive mode flags onto a mode and
// strength. With no mode flag set the command defaults to beep, matching the
// stock remote. More than one mode flag is a usage error.
func resolveMode(beep, vibrate, shock bool, vibrateStrength, shockStrength uint8) (caixian.Mode, uint8, error) {
	set := 0
	for _, on := range []bool{beep, vibrate, shock} {
		if on {
			set++
		}
	}
	if set > 1 {
		return 0, 0, fmt.Errorf("at most one of -b, -v, -s may be given")
	}

	switch {
	case vibrate:
		return caixian.ModeVibrate, vibrateStrength, nil
	case shock:
		return caixian.ModeShock, shockStrength, nil
	default:
		return caixian.ModeBeep, 0, nil
	}
}

func runSend(cmd *cobra.Command, args []string) error {
	mode, strength, err := resolveMode(
		sendBeep,
		cmd.Flags().Changed("vibrate"),
		cmd.Flags().Changed("shock"),
		sendVibrate, sendShock)
	if err != nil {
		return err
	}

	params, err := caixian.NewParams(sendID, caixian.Channel(sendChannel-1), mode, strength, sendRepeat)
	if err != nil {
		return err
	}

	if sendDryRun {
		renderDryRun(params, sendDelay)
		return nil
	}

	out, outInfo, err := OpenOutput()
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Barker - CaiXianLin Transmitter\n")
	fmt.Printf("Output: %s\n", outInfo)
	fmt.Printf("Command: %s\n", caixian.FormatParams(params))

	tx := caixian.NewTransmitter(caixian.NewEmitter(out, sendDelay))

	if sendDelay == caixian.AutoDelay {
		tx.Progress = os.Stdout
		fmt.Printf("Calibrating\n")
		if _, err := tx.Calibrate(ctx); err != nil {
			if ctx.Err() != nil {
				fmt.Printf("Exiting...\n")
				return nil
			}
			return fmt.Errorf("calibration failed: %w", err)
		}
	}

	fmt.Printf(".\n")
	tx.Send(ctx, params)
	fmt.Printf("Exiting...\n")
	return nil
}

// renderDryRun prints the frame a transmission would emit, without hardware:
// the parameters, the checksum, the grouped wire hex wrapped to the terminal,
// and the estimated on-air time at the given delay.
func renderDryRun(p caixian.Params, delay uint32) {
	f := caixian.NewFrame(p)

	fmt.Printf("Command:  %s\n", caixian.FormatParams(p))
	fmt.Printf("Checksum: %d (0x%02x)\n", f.FrameChecksum(), f.FrameChecksum())

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	fmt.Printf("Wire:\n")
	for _, line := range wrapWire(caixian.FormatWire(*f), width-4) {
		fmt.Printf("  %s\n", line)
	}

	airtime := time.Duration(uint64(caixian.FramePhases)*uint64(delay)*uint64(p.Repeat())) * time.Microsecond
	fmt.Printf("On-air:   ~%s (%d quarter phases x %d us x %d repeats)\n",
		airtime, caixian.FramePhases, delay, p.Repeat())
}

// wrapWire splits a space-separated wire rendering into lines no wider than
// width, breaking only between field groups. A single group wider than the
// limit gets its own line rather than being split.
func wrapWire(wire string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	line := ""
	for _, group := range strings.Fields(wire) {
		switch {
		case line == "":
			line = group
		case len(line)+1+len(group) <= width:
			line += " " + group
		default:
			lines = append(lines, line)
			line = group
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
