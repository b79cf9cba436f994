package vm

import (
	"encoding/binary"
	"fmt"
)

// ---------------------------------------------------------------------------
// Decoder: turns a byte cursor into shaped instructions
// ---------------------------------------------------------------------------

// Decoder reads instructions from a program buffer. The cursor only moves
// forward, and only past instructions that decoded completely.
type Decoder struct {
	code []byte
	pos  int
}

// NewDecoder creates a decoder positioned at the start of code. The decoder
// does not copy code; callers must not modify it while decoding.
func NewDecoder(code []byte) *Decoder {
	return &Decoder{code: code}
}

// Pos returns the offset of the next byte to decode.
func (d *Decoder) Pos() int {
	return d.pos
}

// Len returns the length of the program buffer.
func (d *Decoder) Len() int {
	return len(d.code)
}

// Remaining returns the number of undecoded bytes.
func (d *Decoder) Remaining() int {
	return len(d.code) - d.pos
}

// HasMore returns true if there are more bytes to decode.
func (d *Decoder) HasMore() bool {
	return d.pos < len(d.code)
}

// Decode reads the next instruction. An extension prefix is folded into the
// instruction that follows it. On error the cursor is left where it was, so
// no partially decoded instruction is ever observable.
func (d *Decoder) Decode() (Instruction, error) {
	start := d.pos
	p := start

	if p >= len(d.code) {
		return Instruction{}, ErrEndOfProgram
	}
	op := OpcodeFromByte(d.code[p])
	p++

	ext, isExt := op.Extension()
	if isExt {
		if p >= len(d.code) {
			return Instruction{}, fmt.Errorf("%w: dangling %s prefix at %04X", ErrEndOfProgram, op, start)
		}
		op = OpcodeFromByte(d.code[p])
		p++
	}

	shape := ShapeOf(op).Widen(ext)
	need := shape.ByteLen()
	if have := len(d.code) - p; need > have {
		return Instruction{}, &TruncatedInstructionError{
			Op:     op,
			Offset: start,
			Argc:   int(shape.Argc),
			Need:   need,
			Have:   have,
		}
	}

	var raw [MaxArgs]uint32
	var wide [3]byte
	for i := 0; i < int(shape.Argc); i++ {
		switch shape.Args[i].Width {
		case Width8:
			raw[i] = uint32(d.code[p])
		case Width16:
			raw[i] = uint32(binary.BigEndian.Uint16(d.code[p:]))
		case Width24:
			copy(wide[:], d.code[p:p+3])
		}
		p += shape.Args[i].Width.Bytes()
	}

	args, ok := newArgs(shape, raw, wide)
	if !ok {
		// Only reachable if the opcode table declares a shape newArgs
		// does not know about.
		panic(fmt.Sprintf("vm: no operand type for %s shape %s", op, shape))
	}

	d.pos = p
	return Instruction{
		Op:     op,
		Ext:    ext,
		Args:   args,
		Offset: start,
		Size:   p - start,
	}, nil
}
