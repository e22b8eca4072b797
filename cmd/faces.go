// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"fmt"

	"github.com/copperline/gotchiscope/pkg/pwnzero"
	"github.com/spf13/cobra"
)

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "Print the face catalog",
	Long: `List every face the PwnZero protocol can carry.

Shows the face identifier, its wire byte, the catalog name, and the glyph
the watch view renders for it.`,
	RunE: runFaces,
}

func init() {
	rootCmd.AddCommand(facesCmd)
}

func runFaces(cmd *cobra.Command, args []string) error {
	fmt.Printf(" ID  WIRE  NAME          GLYPH\n")
	for f := pwnzero.FaceNone; f < pwnzero.FaceCount; f++ {
		fmt.Printf("%3d  0x%02X  %-13s %s\n", int(f), f.Wire(), f.String(), f.Glyph())
	}
	return nil
}
