// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package capture

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"
)

func roundtripFile(t *testing.T, name string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	meta := Meta{
		Version: FormatVersion,
		Port:    "/dev/ttyUSB0",
		Baud:    115200,
		StartMS: 1756100000000,
	}

	chunks := []Chunk{
		{OffsetMS: 0, Data: []byte{0x02, 0x04, 0x10, 0x03}},
		{OffsetMS: 150, Data: []byte("hello")},
		{OffsetMS: 1200, Data: []byte{0x02, 0x0A, 0x05, 0x03}},
	}

	w, err := Create(path, meta)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, c := range chunks {
		if err := w.WriteChunkAt(c.Offset(), c.Data); err != nil {
			t.Fatalf("WriteChunkAt failed: %v", err)
		}
	}
	if w.Chunks() != 3 {
		t.Errorf("Chunks should be 3, got %d", w.Chunks())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if r.Meta() != meta {
		t.Errorf("Meta mismatch: expected %+v, got %+v", meta, r.Meta())
	}

	for i, want := range chunks {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		if got.OffsetMS != want.OffsetMS {
			t.Errorf("Chunk %d offset mismatch: expected %d, got %d", i, want.OffsetMS, got.OffsetMS)
		}
		if string(got.Data) != string(want.Data) {
			t.Errorf("Chunk %d data mismatch: expected % X, got % X", i, want.Data, got.Data)
		}
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next past end should return io.EOF, got %v", err)
	}
}

func TestCapture_Roundtrip(t *testing.T) {
	roundtripFile(t, "session"+FileExt)
}

func TestCapture_Roundtrip_Compressed(t *testing.T) {
	roundtripFile(t, "session"+FileExt+".zst")
}

func TestCapture_EmptyChunksSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty"+FileExt)

	w, err := Create(path, NewMeta("/dev/ttyACM0", 115200))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.WriteChunk(nil); err != nil {
		t.Fatalf("WriteChunk(nil) failed: %v", err)
	}
	if err := w.WriteChunk([]byte{}); err != nil {
		t.Fatalf("WriteChunk(empty) failed: %v", err)
	}
	if w.Chunks() != 0 {
		t.Errorf("Empty chunks should be skipped, got %d", w.Chunks())
	}

	if err := w.WriteChunk([]byte{0x01}); err != nil {
		t.Fatalf("WriteChunk failed: %v", err)
	}
	if w.Chunks() != 1 || w.Bytes() != 1 {
		t.Errorf("Expected 1 chunk of 1 byte, got %d chunks %d bytes", w.Chunks(), w.Bytes())
	}
	w.Close()
}

func TestCapture_DefaultsFilledOnCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults"+FileExt)

	w, err := Create(path, Meta{Port: "/dev/ttyUSB1", Baud: 115200})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if r.Meta().Version != FormatVersion {
		t.Errorf("Version should default to %d, got %d", FormatVersion, r.Meta().Version)
	}
	if r.Meta().StartMS == 0 {
		t.Error("StartMS should default to a real timestamp")
	}
}

func TestCapture_OpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope"+FileExt)); err == nil {
		t.Error("Open of missing file should fail")
	}
}

func TestCapture_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future"+FileExt)

	w, err := Create(path, Meta{Version: 99, Port: "x", Baud: 1, StartMS: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Close()

	if _, err := Open(path); err == nil {
		t.Error("Open should reject unknown format versions")
	}
}

func TestCompressed(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"session.pwncap.zst", true},
		{"session.pwncap.ZST", true},
		{"session.pwncap", false},
		{"session.zstx", false},
	}
	for _, tt := range tests {
		if got := Compressed(tt.path); got != tt.expected {
			t.Errorf("Compressed(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestIsCapturePath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"session.pwncap", true},
		{"session.pwncap.zst", true},
		{"dir/session.PWNCAP", true},
		{"session.zst", false},
		{"session.txt", false},
		{"session", false},
	}
	for _, tt := range tests {
		if got := IsCapturePath(tt.path); got != tt.expected {
			t.Errorf("IsCapturePath(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestChunk_Offset(t *testing.T) {
	c := Chunk{OffsetMS: 1500}
	if c.Offset() != 1500*time.Millisecond {
		t.Errorf("Offset mismatch: got %v", c.Offset())
	}
}
