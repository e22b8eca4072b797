// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"fmt"
	"time"

	"github.com/copperline/gotchiscope/pkg/pwnzero"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rawlogStatsInterval int

var rawlogCmd = &cobra.Command{
	Use:   "rawlog",
	Short: "Display decoded status frames in human-readable format",
	Long: `Continuously decode and display PwnZero frames as they arrive.

Each completed frame is shown with timestamp, parameter name, and decoded
argument. Validation warnings are listed under the frame they belong to.
Bytes rejected before the first complete frame are counted silently and
reported once synchronization is reached; later decode errors are shown
as they happen.

A statistics block is printed periodically and once more when a replay
source runs out.`,
	RunE: runRawlog,
}

func init() {
	rootCmd.AddCommand(rawlogCmd)
	rawlogCmd.Flags().IntVar(&rawlogStatsInterval, "stats-interval", 10, "Statistics interval in seconds (0 disables)")
}

func runRawlog(cmd *cobra.Command, args []string) error {
	src, srcInfo, err := OpenByteSource()
	if err != nil {
		return err
	}
	defer src.Close()

	fmt.Printf("Gotchiscope - Raw Frame Log\n")
	fmt.Printf("Source: %s\n", srcInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := pwnzero.NewDecoder()
	stats := pwnzero.NewStatistics()

	// Sync tracking - ignore decode errors until the first complete frame
	synchronized := false
	invalidBytesBeforeSync := 0

	process := func(data []byte) {
		for _, b := range data {
			packet, decodeErr := decoder.DecodeByte(b)

			if decodeErr != nil {
				if synchronized {
					stats.Update(nil, decodeErr, nil)
					fmt.Printf("[%s] DECODE ERROR: %v\n", time.Now().Format("15:04:05.000"), decodeErr)
				} else {
					invalidBytesBeforeSync++
				}
				continue
			}
			if packet == nil {
				continue
			}

			if !synchronized {
				synchronized = true
				if invalidBytesBeforeSync > 0 {
					fmt.Printf("[SYNC] Synchronized after skipping %d invalid bytes\n\n", invalidBytesBeforeSync)
				} else {
					fmt.Printf("[SYNC] Synchronized\n\n")
				}
			}

			validationErrors := pwnzero.ValidatePacket(packet)
			stats.Update(packet, nil, validationErrors)

			fmt.Print(pwnzero.FormatPacket(packet))
			for _, verr := range validationErrors {
				fmt.Printf("  WARNING: %s\n", verr.Message)
			}
		}
	}

	statsTicker := time.NewTicker(statsTickInterval(rawlogStatsInterval))
	defer statsTicker.Stop()

	// Channel for non-blocking source reads
	dataChan := make(chan []byte, 16)
	readDone := make(chan struct{})
	go func() {
		buf := make([]byte, 128)
		for {
			n, err := src.Read(buf)
			if err != nil {
				if sourceDone(err) {
					close(readDone)
					return
				}
				log.Warn().Err(err).Msg("read error")
				time.Sleep(10 * time.Millisecond)
				continue
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			dataChan <- data
		}
	}()

	for {
		select {
		case data := <-dataChan:
			process(data)

		case <-readDone:
			// Drain whatever the reader queued before it finished
			for {
				select {
				case data := <-dataChan:
					process(data)
				default:
					fmt.Printf("\nSource exhausted\n\n")
					fmt.Print(stats.String())
					return nil
				}
			}

		case <-statsTicker.C:
			if rawlogStatsInterval > 0 {
				fmt.Println()
				fmt.Print(stats.String())
				fmt.Println()
			}
		}
	}
}

// statsTickInterval maps the flag value to a ticker period. A disabled
// interval still needs a valid ticker, it just never prints.
func statsTickInterval(seconds int) time.Duration {
	if seconds <= 0 {
		return time.Hour
	}
	return time.Duration(seconds) * time.Second
}
