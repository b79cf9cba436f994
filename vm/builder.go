package vm

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Builder: helper for constructing programs
// ---------------------------------------------------------------------------

// Builder helps construct bytecode sequences. It encodes operands according
// to the opcode table and inserts extension prefixes where an operand does
// not fit its declared 8-bit slot.
type Builder struct {
	bytes []byte
}

// NewBuilder creates a new program builder.
func NewBuilder() *Builder {
	return &Builder{
		bytes: make([]byte, 0, 64),
	}
}

// Bytes returns the constructed program.
func (b *Builder) Bytes() []byte {
	return b.bytes
}

// Len returns the current length.
func (b *Builder) Len() int {
	return len(b.bytes)
}

// EmitRaw appends raw bytes without any validation.
func (b *Builder) EmitRaw(data ...byte) {
	b.bytes = append(b.bytes, data...)
}

// Emit appends op with the given operands, choosing the narrowest
// extension prefix that lets every operand fit.
func (b *Builder) Emit(op Opcode, operands ...int) error {
	shape, err := checkEmit(op, operands)
	if err != nil {
		return err
	}
	ext := ExtNone
	first := needsWidening(shape.Args[0], operands, 0)
	second := needsWidening(shape.Args[1], operands, 1)
	switch {
	case first && second:
		ext = ExtBoth
	case first:
		ext = ExtFirst
	case second:
		ext = ExtSecond
	}
	return b.emit(ext, op, shape, operands)
}

// EmitExt appends op preceded by the given extension prefix, even if the
// operands would fit without it.
func (b *Builder) EmitExt(ext Extension, op Opcode, operands ...int) error {
	shape, err := checkEmit(op, operands)
	if err != nil {
		return err
	}
	return b.emit(ext, op, shape, operands)
}

// EmitLoadI appends an immediate load of v into register reg.
func (b *Builder) EmitLoadI(reg uint8, v int16) {
	// The handler only accepts the 16-bit immediate form.
	b.bytes = append(b.bytes, byte(OpEXT2), byte(OpLOADI), reg, byte(uint16(v)>>8), byte(v))
}

// EmitStop appends a STOP.
func (b *Builder) EmitStop() {
	b.bytes = append(b.bytes, byte(OpSTOP))
}

func (b *Builder) emit(ext Extension, op Opcode, shape Shape, operands []int) error {
	shape = shape.Widen(ext)
	for i, v := range operands {
		if !fits(shape.Args[i], v) {
			return fmt.Errorf("%s: operand %d value %d does not fit %s", op, i+1, v, shape.Args[i])
		}
	}

	if ext != ExtNone {
		b.bytes = append(b.bytes, byte(ext.Opcode()))
	}
	b.bytes = append(b.bytes, byte(op))
	for i, v := range operands {
		switch shape.Args[i].Width {
		case Width8:
			b.bytes = append(b.bytes, byte(v))
		case Width16:
			b.bytes = append(b.bytes, byte(v>>8), byte(v))
		case Width24:
			b.bytes = append(b.bytes, byte(v>>16), byte(v>>8), byte(v))
		}
	}
	return nil
}

func checkEmit(op Opcode, operands []int) (Shape, error) {
	if !op.Valid() {
		return Shape{}, fmt.Errorf("cannot emit %s", op)
	}
	if _, isExt := op.Extension(); isExt {
		return Shape{}, errors.New("extension prefixes are inserted by the builder, not emitted directly")
	}
	shape := ShapeOf(op)
	if len(operands) != int(shape.Argc) {
		return Shape{}, fmt.Errorf("%s takes %d operand(s), got %d", op, shape.Argc, len(operands))
	}
	return shape, nil
}

func needsWidening(spec ArgSpec, operands []int, i int) bool {
	return i < len(operands) && spec.Width == Width8 && !fits(spec, operands[i])
}

func fits(spec ArgSpec, v int) bool {
	bits := uint(spec.Width)
	if bits == 0 {
		return false
	}
	if spec.Signed {
		lo, hi := -(1 << (bits - 1)), 1<<(bits-1)-1
		return v >= lo && v <= hi
	}
	return v >= 0 && v < 1<<bits
}
