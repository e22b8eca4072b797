// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/copperline/gotchiscope/pkg/pwnzero"
	"github.com/rs/zerolog"
)

// Environment variables honored by every command.
const (
	EnvConfig   = "GOTCHISCOPE_CONFIG"
	EnvLogLevel = "GOTCHISCOPE_LOG_LEVEL"
)

// Config holds the settings a config file can supply. Flags set on the
// command line override it.
type Config struct {
	Port          string
	Baud          int
	LogLevel      string
	SinkCapacity  int
	QueueCapacity int
	ReplaySpeed   float64
	CaptureDir    string
	ShowAll       bool
}

// DefaultConfig returns the built-in settings used when no config file is
// present.
func DefaultConfig() Config {
	return Config{
		Baud:          115200,
		LogLevel:      "info",
		SinkCapacity:  pwnzero.DefaultSinkCapacity,
		QueueCapacity: pwnzero.DefaultQueueCapacity,
		ReplaySpeed:   1.0,
		CaptureDir:    ".",
	}
}

type fileConfig struct {
	Port          string  `toml:"port"`
	Baud          int     `toml:"baud"`
	LogLevel      string  `toml:"log_level"`
	SinkCapacity  int     `toml:"sink_capacity"`
	QueueCapacity int     `toml:"queue_capacity"`
	ReplaySpeed   float64 `toml:"replay_speed"`
	CaptureDir    string  `toml:"capture_dir"`
	ShowAll       bool    `toml:"show_all"`
}

// loadConfig loads the config file at path, falling back to the
// GOTCHISCOPE_CONFIG environment variable. An empty path returns the
// defaults. Only keys present in the file override the defaults.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("sink_capacity") {
		cfg.SinkCapacity = raw.SinkCapacity
	}
	if meta.IsDefined("queue_capacity") {
		cfg.QueueCapacity = raw.QueueCapacity
	}
	if meta.IsDefined("replay_speed") {
		cfg.ReplaySpeed = raw.ReplaySpeed
	}
	if meta.IsDefined("capture_dir") {
		cfg.CaptureDir = strings.TrimSpace(raw.CaptureDir)
	}
	if meta.IsDefined("show_all") {
		cfg.ShowAll = raw.ShowAll
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.SinkCapacity <= 0 {
		return fmt.Errorf("sink_capacity must be positive, got %d", c.SinkCapacity)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	if c.ReplaySpeed < 0 {
		return fmt.Errorf("replay_speed must not be negative, got %g", c.ReplaySpeed)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
