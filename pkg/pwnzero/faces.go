// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import "fmt"

// Face identifies one of the Pwnagotchi moods. Identifiers are the wire
// value minus FaceOffset, so FaceNone is wire 0x04 and FaceUpload2 is
// wire 0x1E.
type Face int

// Face identifiers in wire order.
const (
	FaceNone Face = iota
	FaceDefault
	FaceLookR
	FaceLookL
	FaceLookRHappy
	FaceLookLHappy
	FaceSleep
	FaceSleep2
	FaceAwake
	FaceBored
	FaceIntense
	FaceCool
	FaceHappy
	FaceGrateful
	FaceExcited
	FaceMotivated
	FaceDemotivated
	FaceSmart
	FaceLonely
	FaceSad
	FaceAngry
	FaceFriend
	FaceBroken
	FaceDebug
	FaceUpload
	FaceUpload1
	FaceUpload2

	// FaceCount is the number of catalogued faces.
	FaceCount
)

var faceNames = [FaceCount]string{
	FaceNone:        "NO_FACE",
	FaceDefault:     "DEFAULT",
	FaceLookR:       "LOOK_R",
	FaceLookL:       "LOOK_L",
	FaceLookRHappy:  "LOOK_R_HAPPY",
	FaceLookLHappy:  "LOOK_L_HAPPY",
	FaceSleep:       "SLEEP",
	FaceSleep2:      "SLEEP2",
	FaceAwake:       "AWAKE",
	FaceBored:       "BORED",
	FaceIntense:     "INTENSE",
	FaceCool:        "COOL",
	FaceHappy:       "HAPPY",
	FaceGrateful:    "GRATEFUL",
	FaceExcited:     "EXCITED",
	FaceMotivated:   "MOTIVATED",
	FaceDemotivated: "DEMOTIVATED",
	FaceSmart:       "SMART",
	FaceLonely:      "LONELY",
	FaceSad:         "SAD",
	FaceAngry:       "ANGRY",
	FaceFriend:      "FRIEND",
	FaceBroken:      "BROKEN",
	FaceDebug:       "DEBUG",
	FaceUpload:      "UPLOAD",
	FaceUpload1:     "UPLOAD1",
	FaceUpload2:     "UPLOAD2",
}

var faceGlyphs = [FaceCount]string{
	FaceNone:        "",
	FaceDefault:     "(⇀‿‿↼)",
	FaceLookR:       "( ⚆_⚆)",
	FaceLookL:       "(☉_☉ )",
	FaceLookRHappy:  "( ◕‿◕)",
	FaceLookLHappy:  "(◕‿◕ )",
	FaceSleep:       "(⇀‿‿↼)",
	FaceSleep2:      "(≖‿‿≖)",
	FaceAwake:       "(◕‿‿◕)",
	FaceBored:       "(-__-)",
	FaceIntense:     "(°▃▃°)",
	FaceCool:        "(⌐■_■)",
	FaceHappy:       "(•‿‿•)",
	FaceGrateful:    "(^‿‿^)",
	FaceExcited:     "(ᵔ◡◡ᵔ)",
	FaceMotivated:   "(☼‿‿☼)",
	FaceDemotivated: "(≖__≖)",
	FaceSmart:       "(✜‿‿✜)",
	FaceLonely:      "(ب__ب)",
	FaceSad:         "(╥☁╥ )",
	FaceAngry:       "(-_-')",
	FaceFriend:      "(♥‿‿♥)",
	FaceBroken:      "(☓‿‿☓)",
	FaceDebug:       "(#__#)",
	FaceUpload:      "(1__0)",
	FaceUpload1:     "(1__1)",
	FaceUpload2:     "(0__1)",
}

// FaceFromWire converts a wire argument byte to a face identifier,
// clamping at FaceNone for underflowing values.
func FaceFromWire(b byte) Face {
	id := int(b) - FaceOffset
	if id < 0 {
		id = 0
	}
	return Face(id)
}

// Wire returns the face's wire argument byte. Identifiers outside the
// catalog encode as the wire range boundaries.
func (f Face) Wire() byte {
	if f < 0 {
		return FaceWireMin
	}
	if f >= FaceCount {
		return FaceWireMax
	}
	return byte(int(f) + FaceOffset)
}

// Valid reports whether the face is in the catalog.
func (f Face) Valid() bool {
	return f >= 0 && f < FaceCount
}

// String returns the face's catalog name, or a numeric placeholder for
// identifiers outside the catalog.
func (f Face) String() string {
	if f.Valid() {
		return faceNames[f]
	}
	return fmt.Sprintf("FACE_%d", int(f))
}

// Glyph returns the face's terminal rendering. Identifiers outside the
// catalog render as the default face so a corrupt frame never blanks the
// display.
func (f Face) Glyph() string {
	if f.Valid() {
		return faceGlyphs[f]
	}
	return faceGlyphs[FaceDefault]
}
