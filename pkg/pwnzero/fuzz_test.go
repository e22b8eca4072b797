// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import (
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// randomKnownCode picks one of the nine parameter codes
func randomKnownCode(rng *rand.Rand) byte {
	return byte(ParamFace + rng.Intn(int(ParamMessage-ParamFace)+1))
}

// randomArgs builds a plausible argument for a code: wire-range bytes for
// the single-byte parameters, printable text for the rest
func randomArgs(rng *rand.Rand, code byte) []byte {
	switch code {
	case ParamFace:
		return []byte{byte(FaceWireMin + rng.Intn(FaceWireMax-FaceWireMin+1))}
	case ParamMode:
		return []byte{byte(modeWireManual + rng.Intn(3))}
	case ParamFriend:
		return nil
	}

	n := rng.Intn(MaxArgLen(code) + 1)
	args := make([]byte, n)
	for i := range args {
		args[i] = byte(0x20 + rng.Intn(0x5F)) // printable ASCII
	}
	return args
}

// checkStatusInvariants fails the test if the status left its legal range
func checkStatusInvariants(t *testing.T, s *Status, round int) {
	t.Helper()
	snap := s.Snapshot()

	if snap.Face < 0 {
		t.Errorf("Round %d: face went negative: %d", round, snap.Face)
	}
	if snap.Mode != ModeManual && snap.Mode != ModeAuto && snap.Mode != ModeAI {
		t.Errorf("Round %d: impossible mode: %d", round, int(snap.Mode))
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"hostname", snap.Hostname, MaxHostnameLen},
		{"channel", snap.Channel, MaxChannelLen},
		{"aps", snap.APs, MaxAPsLen},
		{"uptime", snap.Uptime, MaxUptimeLen},
		{"handshakes", snap.Handshakes, MaxHandshakesLen},
		{"message", snap.Message, MaxMessageLen},
	}
	for _, f := range fields {
		if len(f.value) > f.max {
			t.Errorf("Round %d: %s exceeds %d bytes: %q", round, f.name, f.max, f.value)
		}
		if strings.ContainsRune(f.value, 0) {
			t.Errorf("Round %d: %s contains NUL: %q", round, f.name, f.value)
		}
	}
}

// ============================================================
// Decoder Fuzz Tests
// ============================================================

// TestFuzzDecoder_RandomBytes feeds random bytes to the decoder, verifies
// it doesn't panic, and verifies it always resynchronizes on a clean frame
func TestFuzzDecoder_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		d := NewDecoder()

		// Random byte sequence of random length (1-512 bytes)
		length := rng.Intn(512) + 1
		data := make([]byte, length)
		rng.Read(data)

		for _, b := range data {
			d.DecodeByte(b)
		}

		// Whatever state the junk left behind, a clean frame must decode.
		packets := decodeAll(d, NewNameCommand("sync"))
		if len(packets) != 1 {
			t.Errorf("Round %d: expected 1 packet after resync, got %d", i, len(packets))
			continue
		}
		if string(packets[0].Args()) != "sync" {
			t.Errorf("Round %d: resynced args mismatch: %q", i, packets[0].Args())
		}
	}
}

// TestFuzzDecoder_RandomFrames generates random well-formed frames and
// verifies they roundtrip through the decoder
func TestFuzzDecoder_RandomFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		d := NewDecoder()

		code := randomKnownCode(rng)
		args := randomArgs(rng, code)
		frame := EncodeCommand(code, args)

		packets := decodeAll(d, frame)
		if len(packets) != 1 {
			t.Errorf("Round %d: expected 1 packet, got %d", i, len(packets))
			continue
		}
		if packets[0].Code() != code {
			t.Errorf("Round %d: code mismatch: expected 0x%02X, got 0x%02X", i, code, packets[0].Code())
		}
		if string(packets[0].Args()) != string(args) {
			t.Errorf("Round %d: args mismatch: expected % X, got % X", i, args, packets[0].Args())
		}
	}
}

// TestFuzzDecoder_CorruptedFrames flips one byte of a valid frame and
// verifies the decoder survives and recovers
func TestFuzzDecoder_CorruptedFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		d := NewDecoder()

		code := randomKnownCode(rng)
		frame := EncodeCommand(code, randomArgs(rng, code))

		corruptIdx := rng.Intn(len(frame))
		frame[corruptIdx] ^= byte(rng.Intn(255) + 1)

		// Corrupted frame must not panic, whatever it decodes to.
		for _, b := range frame {
			d.DecodeByte(b)
		}

		// And the decoder must still accept the next clean frame.
		packets := decodeAll(d, NewModeCommand(ModeAI))
		if len(packets) != 1 {
			t.Errorf("Round %d: expected recovery packet, got %d", i, len(packets))
		}
	}
}

// TestFuzzDecoder_RepeatedStart tests handling of repeated STX bytes
func TestFuzzDecoder_RepeatedStart(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		d := NewDecoder()

		numStarts := rng.Intn(100) + 1
		for j := 0; j < numStarts; j++ {
			if _, err := d.DecodeByte(FrameStart); err != nil {
				t.Errorf("Round %d: STX in idle should be silent, got %v", i, err)
			}
		}

		packets := decodeAll(d, NewUptimeCommand("00:00:01"))
		if len(packets) != 1 {
			t.Errorf("Round %d: expected valid packet after repeated STX, got %d", i, len(packets))
		}
	}
}

// ============================================================
// Apply Fuzz Tests
// ============================================================

// TestFuzzApply_RandomPackets applies random packets and verifies the
// status never leaves its legal ranges
func TestFuzzApply_RandomPackets(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	s := NewStatus()
	for i := 0; i < rounds; i++ {
		code := randomKnownCode(rng)

		// Arbitrary argument bytes, not just plausible ones.
		n := rng.Intn(MaxArgsLen + 8)
		args := make([]byte, n)
		rng.Read(args)

		if _, err := s.Apply(NewPacket(code, args)); err != nil {
			t.Errorf("Round %d: Apply of known code 0x%02X errored: %v", i, code, err)
		}
		checkStatusInvariants(t, s, i)
	}
}

// TestFuzzPipeline_RandomStream pushes random byte soup through decoder
// and applier together, checking invariants the whole way
func TestFuzzPipeline_RandomStream(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		d := NewDecoder()
		s := NewStatus()

		length := rng.Intn(1024) + 1
		data := make([]byte, length)
		rng.Read(data)

		for _, b := range data {
			p, err := d.DecodeByte(b)
			if err != nil || p == nil {
				continue
			}
			if _, err := s.Apply(p); err != nil {
				t.Errorf("Round %d: decoded packet failed to apply: %v", i, err)
			}
		}
		checkStatusInvariants(t, s, i)
	}
}

// ============================================================
// Validation Fuzz Tests
// ============================================================

// TestFuzzValidation_RandomPackets tests validation with random packet contents
func TestFuzzValidation_RandomPackets(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		code := byte(rng.Intn(256))
		n := rng.Intn(MaxArgsLen + 8)
		args := make([]byte, n)
		rng.Read(args)

		errors := ValidatePacket(NewPacket(code, args))
		if errors == nil {
			t.Errorf("Round %d: ValidatePacket returned nil slice", i)
		}
	}
}

// ============================================================
// Formatter Fuzz Tests
// ============================================================

// TestFuzzFormatter_RandomPackets tests formatting with random packets
func TestFuzzFormatter_RandomPackets(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		code := byte(rng.Intn(256))
		n := rng.Intn(MaxArgsLen + 8)
		args := make([]byte, n)
		rng.Read(args)
		p := NewPacket(code, args)

		result := FormatPacket(p)
		if result == "" {
			t.Errorf("Round %d: FormatPacket returned empty string", i)
		}

		typeStr := FormatParamCode(code)
		if typeStr == "" {
			t.Errorf("Round %d: FormatParamCode returned empty string", i)
		}
	}
}
