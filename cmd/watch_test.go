// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOrDash(t *testing.T) {
	if got := orDash(""); got != "-" {
		t.Errorf("empty field should render as dash, got %q", got)
	}
	if got := orDash("pwny"); got != "pwny" {
		t.Errorf("filled field should pass through, got %q", got)
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := humanSize(tt.n); got != tt.expected {
			t.Errorf("humanSize(%d) = %q, expected %q", tt.n, got, tt.expected)
		}
	}
}

func TestCaptureItem(t *testing.T) {
	item := captureItem{
		path: "/captures/gotchiscope-20260825-120000.pwncap.zst",
		size: 4096,
		mod:  time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}

	if item.Title() != "gotchiscope-20260825-120000.pwncap.zst" {
		t.Errorf("title should be the base name, got %q", item.Title())
	}
	if !strings.Contains(item.Description(), "4.0 KB") {
		t.Errorf("description should include the size, got %q", item.Description())
	}
	if item.FilterValue() != item.Title() {
		t.Errorf("filter value should match the title, got %q", item.FilterValue())
	}
}

func TestStatsTickInterval(t *testing.T) {
	if got := statsTickInterval(5); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}
	// Disabled intervals still need a live ticker
	if got := statsTickInterval(0); got < time.Minute {
		t.Errorf("disabled interval should be long, got %v", got)
	}
}

func TestDefaultCaptureName(t *testing.T) {
	saved := appConfig
	defer func() { appConfig = saved }()
	appConfig = DefaultConfig()
	appConfig.CaptureDir = "/tmp/caps"

	name := defaultCaptureName()
	if filepath.Dir(name) != "/tmp/caps" {
		t.Errorf("capture name should land in the configured dir, got %q", name)
	}
	base := filepath.Base(name)
	if !strings.HasPrefix(base, "gotchiscope-") || !strings.HasSuffix(base, ".pwncap.zst") {
		t.Errorf("unexpected capture name %q", base)
	}
}
