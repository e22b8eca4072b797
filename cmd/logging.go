// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLogging configures the global zerolog logger. Diagnostics go to
// stderr so command output on stdout stays pipeable. Level precedence:
// config file, then GOTCHISCOPE_LOG_LEVEL, then --verbose/--quiet.
func initLogging(cfg Config) error {
	levelStr := cfg.LogLevel
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		levelStr = env
	}
	if quiet {
		levelStr = "error"
	}
	if verbose {
		levelStr = "debug"
	}
	if levelStr == "" {
		levelStr = "info"
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return fmt.Errorf("unknown log level %q", levelStr)
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	return nil
}
