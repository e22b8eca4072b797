// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/copperline/gotchiscope/pkg/pwnzero"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	watchText          bool
	watchShowAll       bool
	watchStatsInterval int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live Pwnagotchi status view",
	Long: `Mirror the Pwnagotchi status screen in the terminal.

Frames from the byte source flow through the monitor pipeline into a live
status record: face, hostname, channel, access points, uptime, handshakes,
mode, and message. The default view is a full-screen terminal UI with the
current status, pipeline statistics, and an event log. Press 'q' to quit.

With --text (or when stdout is not a terminal) the status block is printed
on each change instead, with periodic statistics summaries.

By default the event log shows anomalies only. Use --show-all to log every
applied frame.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchText, "text", false, "Line-oriented output instead of the TUI")
	watchCmd.Flags().BoolVar(&watchShowAll, "show-all", false, "Log all frames (not just anomalies)")
	watchCmd.Flags().IntVar(&watchStatsInterval, "stats-interval", 10, "Text mode statistics interval in seconds (0 disables)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("show-all") {
		watchShowAll = appConfig.ShowAll
	}

	// A replay directory means "pick a file from it"
	if replayPath != "" {
		if info, err := os.Stat(replayPath); err == nil && info.IsDir() {
			chosen, err := pickCaptureFile(replayPath)
			if err != nil {
				return err
			}
			replayPath = chosen
		}
	}

	src, srcInfo, err := OpenByteSource()
	if err != nil {
		return err
	}
	defer src.Close()

	if watchText || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runWatchText(src, srcInfo)
	}
	return runWatchTUI(src, srcInfo)
}

// feedLoop reads the source and feeds the monitor until the source is
// exhausted or fails permanently. onDone fires once when a replay ends.
func feedLoop(src ByteSource, mon *pwnzero.Monitor, onDone func()) {
	buf := make([]byte, 128)
	for {
		n, err := src.Read(buf)
		if err != nil {
			if sourceDone(err) {
				onDone()
				return
			}
			log.Warn().Err(err).Msg("read error")
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if accepted := mon.Feed(buf[:n]); accepted < n {
			log.Warn().Int("dropped", n-accepted).Msg("sink full, bytes dropped")
		}
	}
}

// runWatchText mirrors the status in plain line output
func runWatchText(src ByteSource, srcInfo string) error {
	fmt.Printf("Gotchiscope - Status Watch\n")
	fmt.Printf("Source: %s\n", srcInfo)
	if watchShowAll {
		fmt.Printf("Mode: All frames\n")
	} else {
		fmt.Printf("Mode: Anomalies only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	updates := make(chan pwnzero.StatusSnapshot, 8)
	events := make(chan watchLogEntry, 64)
	readDone := make(chan struct{})

	// Callback state lives on the monitor's worker goroutine
	synchronized := false
	invalidBytes := 0

	pushEvent := func(message string, isError bool) {
		select {
		case events <- watchLogEntry{timestamp: time.Now(), message: message, isError: isError}:
		default:
		}
	}

	mon := pwnzero.NewMonitor(pwnzero.MonitorConfig{
		SinkCapacity:  appConfig.SinkCapacity,
		QueueCapacity: appConfig.QueueCapacity,
		OnUpdate: func(snap pwnzero.StatusSnapshot) {
			select {
			case updates <- snap:
			default:
			}
		},
		OnPacket: func(packet *pwnzero.Packet, validationErrors []pwnzero.ValidationError) {
			if !synchronized {
				synchronized = true
				if invalidBytes > 0 {
					pushEvent(fmt.Sprintf("Synchronized after skipping %d invalid bytes", invalidBytes), false)
				} else {
					pushEvent("Synchronized", false)
				}
			}
			name := pwnzero.FormatParamCode(packet.Code())
			if len(validationErrors) > 0 {
				for _, verr := range validationErrors {
					pushEvent(fmt.Sprintf("%s: %s", name, verr.Message), true)
				}
			} else if watchShowAll {
				pushEvent(fmt.Sprintf("%s (valid)", name), false)
			}
		},
		OnDecodeError: func(err error) {
			if synchronized {
				pushEvent(fmt.Sprintf("DECODE ERROR: %v", err), true)
			} else {
				invalidBytes++
			}
		},
	})
	defer mon.Stop()

	go feedLoop(src, mon, func() { close(readDone) })

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statsTicker := time.NewTicker(statsTickInterval(watchStatsInterval))
	defer statsTicker.Stop()

	printEvent := func(ev watchLogEntry) {
		marker := "i"
		if ev.isError {
			marker = "!"
		}
		fmt.Printf("[%s] %s %s\n", ev.timestamp.Format("15:04:05.000"), marker, ev.message)
	}

	finish := func() error {
		mon.Stop()
		// The final sweep may have queued more output
		for {
			select {
			case ev := <-events:
				printEvent(ev)
			case <-updates:
			default:
				fmt.Printf("\n%s\n", pwnzero.FormatSnapshot(mon.Snapshot()))
				stats := mon.Stats()
				fmt.Print(stats.String())
				return nil
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Printf("\nInterrupted\n")
			return finish()

		case <-readDone:
			fmt.Printf("\nSource exhausted\n")
			return finish()

		case snap := <-updates:
			fmt.Printf("\n%s", pwnzero.FormatSnapshot(snap))

		case ev := <-events:
			printEvent(ev)

		case <-statsTicker.C:
			if watchStatsInterval > 0 {
				stats := mon.Stats()
				fmt.Printf("\n%s\n", stats.String())
			}
		}
	}
}
