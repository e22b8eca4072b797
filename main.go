// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline
//
// Gotchiscope - Pwnagotchi Serial Status Monitor
//
// A CLI tool for decoding the PwnZero serial status stream and mirroring
// the Pwnagotchi's screen state in the terminal.

package main

import (
	"os"

	"github.com/copperline/gotchiscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
