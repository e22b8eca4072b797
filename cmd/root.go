// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// Replay flags
	replayPath  string
	replaySpeed float64

	// Config and logging flags
	configPath string
	verbose    bool
	quiet      bool

	// appConfig is the merged configuration, populated before any RunE.
	appConfig Config
)

var rootCmd = &cobra.Command{
	Use:   "gotchiscope",
	Short: "Pwnagotchi Serial Status Monitor",
	Long: `Gotchiscope - A CLI tool for monitoring the PwnZero serial status stream.

A Pwnagotchi running the PwnZero plugin mirrors its on-screen status (face,
hostname, channel, access points, uptime, handshakes, mode, message) over
UART. Gotchiscope decodes that stream and provides commands for live status
display, raw frame logging, connectivity probing, and capture recording.

Byte sources:
  Serial: --port /dev/ttyUSB0 [--baud 115200]
  Replay: --replay session.pwncap[.zst] [--replay-speed 2.0]

An optional TOML config file supplies defaults for the flags; pass it with
--config or the GOTCHISCOPE_CONFIG environment variable. Log verbosity comes
from the config file, GOTCHISCOPE_LOG_LEVEL, or --verbose/--quiet.`,
	Version: "0.3.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		applyConfig(cmd, cfg)
		return initLogging(cfg)
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate")

	// Replay flags
	rootCmd.PersistentFlags().StringVar(&replayPath, "replay", "", "Replay a capture file (or pick from a directory) instead of a serial port")
	rootCmd.PersistentFlags().Float64Var(&replaySpeed, "replay-speed", 1.0, "Replay speed multiplier (0 = as fast as possible)")

	// Config and logging flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Errors only")
}

// applyConfig fills flag-backed settings from the config file. Flags the
// user set explicitly win over the file.
func applyConfig(cmd *cobra.Command, cfg Config) {
	appConfig = cfg

	if !cmd.Flags().Changed("port") && cfg.Port != "" {
		portName = cfg.Port
	}
	if !cmd.Flags().Changed("baud") {
		baudRate = cfg.Baud
	}
	if !cmd.Flags().Changed("replay-speed") {
		replaySpeed = cfg.ReplaySpeed
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
