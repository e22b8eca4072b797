package pwnzero

// EncodeCommand builds a complete wire frame for a parameter update:
// STX, the parameter code, the raw argument bytes, ETX.
// Argument bytes are emitted as given; the command builders enforce
// per-field maxima before calling this.
func EncodeCommand(code byte, args []byte) []byte {
	frame := make([]byte, 0, len(args)+3)
	frame = append(frame, FrameStart)
	frame = append(frame, code)
	frame = append(frame, args...)
	frame = append(frame, FrameEnd)
	return frame
}

// EncodePacket encodes an existing Packet back to wire format.
func EncodePacket(p *Packet) []byte {
	return EncodeCommand(p.Code(), p.Args())
}
