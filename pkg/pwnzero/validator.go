// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package pwnzero

import "fmt"

// AnomalyType represents different types of packet anomalies
type AnomalyType int

const (
	AnomalyFaceRange AnomalyType = iota
	AnomalyUnknownMode
	AnomalyMissingArg
	AnomalyBinaryText
	AnomalyTruncated
)

// ValidationError represents a packet validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidatePacket checks a decoded packet for values a healthy producer
// never sends. Anomalies are observations, not failures: the applier
// still folds the packet in, validation only feeds diagnostics.
// Returns a slice of validation errors (empty if packet is valid)
func ValidatePacket(p *Packet) []ValidationError {
	errors := []ValidationError{}

	switch p.Code() {
	case ParamFace:
		errors = append(errors, validateFace(p)...)
	case ParamMode:
		errors = append(errors, validateMode(p)...)
	case ParamName, ParamChannel, ParamAPs, ParamUptime, ParamHandshakes, ParamMessage:
		errors = append(errors, validateText(p)...)
	case ParamFriend:
		// Reserved parameter, any payload is accepted.
	}

	return errors
}

// validateFace validates a FACE packet
func validateFace(p *Packet) []ValidationError {
	if len(p.Args()) == 0 {
		return []ValidationError{{
			Type:    AnomalyMissingArg,
			Message: "FACE packet carries no argument",
			Details: map[string]interface{}{"code": p.Code()},
		}}
	}

	errors := []ValidationError{}
	wire := p.Arg0()
	if wire < FaceWireMin || wire > FaceWireMax {
		errors = append(errors, ValidationError{
			Type:    AnomalyFaceRange,
			Message: fmt.Sprintf("Face wire value=%d out of range (valid %d-%d)", wire, FaceWireMin, FaceWireMax),
			Details: map[string]interface{}{"value": wire, "min": FaceWireMin, "max": FaceWireMax},
		})
	}

	return errors
}

// validateMode validates a MODE packet
func validateMode(p *Packet) []ValidationError {
	if len(p.Args()) == 0 {
		return []ValidationError{{
			Type:    AnomalyMissingArg,
			Message: "MODE packet carries no argument",
			Details: map[string]interface{}{"code": p.Code()},
		}}
	}

	errors := []ValidationError{}
	wire := p.Arg0()
	if wire != modeWireManual && wire != modeWireAuto && wire != modeWireAI {
		errors = append(errors, ValidationError{
			Type:    AnomalyUnknownMode,
			Message: fmt.Sprintf("Unknown mode byte=0x%02X (valid 0x04-0x06)", wire),
			Details: map[string]interface{}{"value": wire},
		})
	}

	return errors
}

// validateText validates the text-carrying packets
func validateText(p *Packet) []ValidationError {
	errors := []ValidationError{}
	name := FormatParamCode(p.Code())

	for i, b := range p.Args() {
		if b < 0x20 || b > 0x7E {
			errors = append(errors, ValidationError{
				Type:    AnomalyBinaryText,
				Message: fmt.Sprintf("Non-printable byte 0x%02X at offset %d in %s argument", b, i, name),
				Details: map[string]interface{}{"value": b, "offset": i, "param": name},
			})
			break
		}
	}

	if max := MaxArgLen(p.Code()); len(p.Args()) >= max {
		errors = append(errors, ValidationError{
			Type:    AnomalyTruncated,
			Message: fmt.Sprintf("%s argument hit the %d byte cap without a terminator", name, max),
			Details: map[string]interface{}{"param": name, "length": len(p.Args()), "max": max},
		})
	}

	return errors
}
