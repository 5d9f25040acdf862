// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kennelworks

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kennelworks/barker/pkg/caixian"
	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Measure this machine's achievable quarter-phase delay",
	Long: `Run the delay self-calibration procedure on the real output line.

Ten test frames are transmitted and timed; after each, the quarter-phase
delay is rescaled toward the protocol's 4 kHz rate and printed. The converged
value accounts for this machine's scheduling and I/O overhead and can be
passed to send via -d to skip calibration on later runs.

The test frames carry an all-zero payload that no paired collar responds to,
but they do key the radio; run this away from other transmitters.

Exit codes:
  0 - Calibration complete, or stopped by user interrupt
  1 - Output line failed to initialize, or a measurement was invalid`,
	RunE: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	out, outInfo, err := OpenOutput()
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Barker - Delay Calibration\n")
	fmt.Printf("Output: %s\n", outInfo)
	fmt.Printf("Calibrating\n")

	tx := caixian.NewTransmitter(caixian.NewEmitter(out, caixian.AutoDelay))
	tx.Progress = os.Stdout

	delay, err := tx.Calibrate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Printf("Exiting...\n")
			return nil
		}
		return fmt.Errorf("calibration failed: %w", err)
	}

	fmt.Printf("\nConverged delay: %d us\n", delay)
	fmt.Printf("Reuse it with: barker send -d %d ...\n", delay)
	return nil
}
