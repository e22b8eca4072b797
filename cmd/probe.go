// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/copperline/gotchiscope/pkg/pwnzero"
	"github.com/spf13/cobra"
)

var probeTimeout int

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test the connection by waiting for one decodable frame",
	Long: `Wait for a complete PwnZero frame on the byte source until timeout.

The probe ignores stray bytes and partial frames and succeeds as soon as
one frame decodes. Useful for checking wiring and baud rate before
starting a watch session.

Exit codes:
  0 - Frame received before timeout
  1 - Timeout reached without a complete frame
  2 - Connection error`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

func runProbe(cmd *cobra.Command, args []string) error {
	src, srcInfo, err := OpenByteSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer src.Close()

	fmt.Printf("Gotchiscope - Probe\n")
	fmt.Printf("Source: %s\n", srcInfo)
	fmt.Printf("Timeout: %d seconds\n", probeTimeout)
	fmt.Printf("Waiting for a PwnZero frame...\n\n")

	decoder := pwnzero.NewDecoder()

	packetChan := make(chan *pwnzero.Packet, 1)
	errChan := make(chan error, 1)

	go func() {
		buf := make([]byte, 128)
		invalidBytes := 0
		for {
			n, err := src.Read(buf)
			if err != nil {
				errChan <- err
				return
			}

			for i := 0; i < n; i++ {
				packet, decodeErr := decoder.DecodeByte(buf[i])
				if decodeErr != nil {
					// Noise before sync is expected, just count it
					invalidBytes++
					continue
				}
				if packet != nil {
					if invalidBytes > 0 {
						fmt.Printf("(skipped %d invalid bytes before sync)\n", invalidBytes)
					}
					packetChan <- packet
					return
				}
			}
		}
	}()

	select {
	case packet := <-packetChan:
		fmt.Printf("SUCCESS: Received frame\n")
		fmt.Print(pwnzero.FormatPacket(packet))
		os.Exit(0)

	case err := <-errChan:
		if sourceDone(err) {
			fmt.Fprintf(os.Stderr, "TIMEOUT: Capture ended without a complete frame\n")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(probeTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No complete frame within %d seconds\n", probeTimeout)
		os.Exit(1)
	}

	return nil
}
