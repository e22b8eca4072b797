// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/copperline/gotchiscope/pkg/capture"
	"github.com/copperline/gotchiscope/pkg/pwnzero"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	recordOut  string
	recordEcho bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the raw byte stream to a capture file",
	Long: `Stream raw bytes from the source into a capture file for later replay.

Each serial read becomes one timestamped chunk, so a replay reproduces the
original arrival timing. The default output name is derived from the
current time and placed in the configured capture directory; a .zst suffix
enables stream compression.

Recording runs until interrupted. Ctrl+C flushes and closes the file
cleanly. With --echo, frames are decoded and printed while recording.`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&recordOut, "out", "o", "", "Output capture file (default: timestamped name in capture_dir)")
	recordCmd.Flags().BoolVar(&recordEcho, "echo", false, "Decode and print frames while recording")
}

// defaultCaptureName builds a timestamped output path in the configured
// capture directory. Compression is on by default, recordings are long
// runs of mostly printable text.
func defaultCaptureName() string {
	name := fmt.Sprintf("gotchiscope-%s%s.zst", time.Now().Format("20060102-150405"), capture.FileExt)
	return filepath.Join(appConfig.CaptureDir, name)
}

func runRecord(cmd *cobra.Command, args []string) error {
	src, srcInfo, err := OpenByteSource()
	if err != nil {
		return err
	}
	defer src.Close()

	out := recordOut
	if out == "" {
		out = defaultCaptureName()
	}

	meta := capture.NewMeta(portName, baudRate)
	w, err := capture.Create(out, meta)
	if err != nil {
		return err
	}

	fmt.Printf("Gotchiscope - Record\n")
	fmt.Printf("Source: %s\n", srcInfo)
	fmt.Printf("Output: %s\n", out)
	fmt.Printf("Press Ctrl+C to stop\n\n")

	log.Info().Str("path", out).Bool("compressed", capture.Compressed(out)).Msg("recording started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	decoder := pwnzero.NewDecoder()

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
			select {
			case dataChan <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	writeChunk := func(data []byte) error {
		if err := w.WriteChunk(data); err != nil {
			return fmt.Errorf("write capture: %w", err)
		}
		if recordEcho {
			for _, b := range data {
				packet, decodeErr := decoder.DecodeByte(b)
				if decodeErr != nil {
					continue
				}
				if packet != nil {
					fmt.Print(pwnzero.FormatPacket(packet))
				}
			}
		}
		return nil
	}

	finish := func() error {
		err := w.Close()
		log.Info().
			Str("path", out).
			Uint64("chunks", w.Chunks()).
			Uint64("bytes", w.Bytes()).
			Msg("recording closed")
		fmt.Printf("\nRecorded %d chunks (%d bytes) to %s\n", w.Chunks(), w.Bytes(), out)
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return finish()

		case <-readDone:
			// Replay sources end on their own; flush what arrived
			for {
				select {
				case data := <-dataChan:
					if err := writeChunk(data); err != nil {
						w.Close()
						return err
					}
				default:
					return finish()
				}
			}

		case data := <-dataChan:
			if err := writeChunk(data); err != nil {
				w.Close()
				return err
			}
		}
	}
}
