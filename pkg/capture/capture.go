// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

// Package capture reads and writes PwnZero session captures.
//
// A capture file is a CBOR stream: one Meta header followed by any
// number of Chunk records, each holding the bytes of one transport read
// and its millisecond offset from session start. Files ending in .zst
// are zstd-compressed transparently.
package capture

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// FormatVersion is the capture format written by this package.
const FormatVersion = 1

// FileExt is the conventional capture file extension, before optional
// .zst compression.
const FileExt = ".pwncap"

// Meta is the capture header.
type Meta struct {
	Version int    `cbor:"1,keyasint"`
	Port    string `cbor:"2,keyasint"`
	Baud    int    `cbor:"3,keyasint"`
	StartMS int64  `cbor:"4,keyasint"`
}

// Start returns the session start time.
func (m Meta) Start() time.Time {
	return time.UnixMilli(m.StartMS)
}

// NewMeta builds a header for a session starting now.
func NewMeta(port string, baud int) Meta {
	return Meta{
		Version: FormatVersion,
		Port:    port,
		Baud:    baud,
		StartMS: time.Now().UnixMilli(),
	}
}

// Chunk is one timed transport read.
type Chunk struct {
	OffsetMS uint32 `cbor:"1,keyasint"`
	Data     []byte `cbor:"2,keyasint"`
}

// Offset returns the chunk's offset from session start.
func (c Chunk) Offset() time.Duration {
	return time.Duration(c.OffsetMS) * time.Millisecond
}

// Compressed reports whether a capture path names a zstd stream.
func Compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

// IsCapturePath reports whether a path looks like a capture file, with
// or without compression.
func IsCapturePath(path string) bool {
	if Compressed(path) {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.EqualFold(filepath.Ext(path), FileExt)
}

// Writer appends timed chunks to a capture file.
type Writer struct {
	f      *os.File
	zw     *zstd.Encoder
	enc    *cbor.Encoder
	start  time.Time
	chunks uint64
	bytes  uint64
}

// Create opens a capture file for writing and writes the header. Paths
// ending in .zst are compressed.
func Create(path string, meta Meta) (*Writer, error) {
	if meta.Version == 0 {
		meta.Version = FormatVersion
	}
	if meta.StartMS == 0 {
		meta.StartMS = time.Now().UnixMilli()
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture: %w", err)
	}

	var sink io.Writer = f
	var zw *zstd.Encoder
	if Compressed(path) {
		zw, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create capture compressor: %w", err)
		}
		sink = zw
	}

	enc := cbor.NewEncoder(sink)
	if err := enc.Encode(meta); err != nil {
		if zw != nil {
			zw.Close()
		}
		f.Close()
		return nil, fmt.Errorf("write capture header: %w", err)
	}

	return &Writer{
		f:     f,
		zw:    zw,
		enc:   enc,
		start: meta.Start(),
	}, nil
}

// WriteChunk appends data stamped with its offset from the session
// start. Empty reads are skipped.
func (w *Writer) WriteChunk(data []byte) error {
	return w.WriteChunkAt(time.Since(w.start), data)
}

// WriteChunkAt appends data with an explicit offset.
func (w *Writer) WriteChunkAt(offset time.Duration, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	chunk := Chunk{
		OffsetMS: uint32(offset.Milliseconds()),
		Data:     data,
	}
	if err := w.enc.Encode(chunk); err != nil {
		return fmt.Errorf("write capture chunk: %w", err)
	}
	w.chunks++
	w.bytes += uint64(len(data))
	return nil
}

// Chunks returns the number of chunks written.
func (w *Writer) Chunks() uint64 {
	return w.chunks
}

// Bytes returns the number of payload bytes written.
func (w *Writer) Bytes() uint64 {
	return w.bytes
}

// Close flushes the compressor and closes the file.
func (w *Writer) Close() error {
	var firstErr error
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			firstErr = err
		}
	}
	if err := w.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Reader replays chunks from a capture file.
type Reader struct {
	f    *os.File
	zr   *zstd.Decoder
	dec  *cbor.Decoder
	meta Meta
}

// Open opens a capture file and reads its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}

	var src io.Reader = f
	var zr *zstd.Decoder
	if Compressed(path) {
		zr, err = zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open capture decompressor: %w", err)
		}
		src = zr
	}

	dec := cbor.NewDecoder(src)
	var meta Meta
	if err := dec.Decode(&meta); err != nil {
		if zr != nil {
			zr.Close()
		}
		f.Close()
		return nil, fmt.Errorf("read capture header: %w", err)
	}
	if meta.Version != FormatVersion {
		if zr != nil {
			zr.Close()
		}
		f.Close()
		return nil, fmt.Errorf("unsupported capture version %d", meta.Version)
	}

	return &Reader{f: f, zr: zr, dec: dec, meta: meta}, nil
}

// Meta returns the capture header.
func (r *Reader) Meta() Meta {
	return r.meta
}

// Next returns the next chunk, or io.EOF after the last one.
func (r *Reader) Next() (Chunk, error) {
	var chunk Chunk
	if err := r.dec.Decode(&chunk); err != nil {
		if err == io.EOF {
			return Chunk{}, io.EOF
		}
		return Chunk{}, fmt.Errorf("read capture chunk: %w", err)
	}
	return chunk, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.zr != nil {
		r.zr.Close()
	}
	return r.f.Close()
}
